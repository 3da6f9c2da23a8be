package report

import (
	"os"
	"strings"
)

// homeDir caches the user's home directory for path shortening.
var homeDir string

func init() {
	homeDir, _ = os.UserHomeDir()
}

// shortenPath replaces the user's home directory prefix with ~.
func shortenPath(s string) string {
	if homeDir == "" || !strings.HasPrefix(s, homeDir) {
		return s
	}

	return "~" + strings.TrimPrefix(s, homeDir)
}
