package main

import (
	"github.com/spf13/cobra"
)

var listFlags struct {
	output string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots and PITR ranges known to pbm",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, client, err := setup(cmd)
		if err != nil {
			return err
		}
		l, err := client.List(cmd.Context())
		if err != nil {
			return err
		}
		return writeList(cmd.OutOrStdout(), l, listFlags.output)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listFlags.output, "output", "o", "text", "output format (text, json)")
}
