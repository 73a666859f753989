package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusFlags struct {
	output string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the pbm status relevant to pruning",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, client, err := setup(cmd)
		if err != nil {
			return err
		}
		s, err := client.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("getting PBM status (is PBM_MONGODB_URI set correctly?): %w", err)
		}
		return writeStatus(cmd.OutOrStdout(), s, statusFlags.output)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&statusFlags.output, "output", "o", "text", "output format (text, json)")
}
