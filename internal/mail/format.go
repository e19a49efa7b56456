package mail

import (
	"fmt"
	"time"
)

// FormatElapsed renders a duration the way the notification bodies
// expect it: whole days win over hours, hours win over minutes, and a
// sub-hour duration mentions only minutes. The sign is discarded; the
// caller decides between "before" and "after".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	days := int(d / (24 * time.Hour))
	rem := d % (24 * time.Hour)
	hours := int(rem / time.Hour)
	minutes := int(rem % time.Hour / time.Minute)

	if days > 0 {
		return fmt.Sprintf("%d days, %d hours", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%d hours, %d minutes", hours, minutes)
	}
	return fmt.Sprintf("%d minutes", minutes)
}
