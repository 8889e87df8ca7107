// Package util holds small formatting helpers for the status line.
package util

import (
	"fmt"
	"time"
)

// FormatDuration formats d as m:ss, or h:mm:ss from one hour on. Negative
// durations print as zero.
func FormatDuration(d time.Duration) string {
	total := int(max(d, 0).Seconds())
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatProgress renders "elapsed / total".
func FormatProgress(elapsed, total time.Duration) string {
	return FormatDuration(elapsed) + " / " + FormatDuration(total)
}
