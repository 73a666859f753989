//go:build windows

package config

// mapEnvKey maps Unix variable names used in $(VAR) placeholders to their
// Windows equivalents.
func mapEnvKey(key string) string {
	switch key {
	case "HOSTNAME":
		return "COMPUTERNAME"
	case "HOME":
		return "USERPROFILE"
	}
	return key
}
