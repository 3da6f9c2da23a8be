package report

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/su2gui/su2cfg/internal/backup"
	"github.com/su2gui/su2cfg/internal/color"
)

// shortIDLen is how much of a snapshot ID is shown in listings.
const shortIDLen = 12

// RenderSnapshots renders backup snapshots, newest last, with human sizes
// and ages relative to now.
func RenderSnapshots(snapshots []backup.Snapshot, now time.Time, theme color.Theme) string {
	if len(snapshots) == 0 {
		return theme.Muted.Render("no snapshots")
	}

	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, []string{
			theme.Field.Render(ShortID(s.ID)),
			shortenPath(s.SourcePath),
			string(s.Trigger),
			humanize.Bytes(uint64(max(s.Size, 0))),
			humanize.RelTime(s.Timestamp, now, "ago", "from now"),
		})
	}

	return renderTable([]string{"ID", "Source", "Trigger", "Size", "Age"}, rows, theme)
}

// ShortID abbreviates a snapshot ID for display.
func ShortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}

	return id[:shortIDLen]
}
