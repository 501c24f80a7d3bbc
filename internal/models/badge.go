package models

// BadgeUnstyled is the class of a status the dashboard does not know
const BadgeUnstyled = "badge-default"

var badgeClasses = map[string]string{
	"Approved":    "badge-success",
	"Paid":        "badge-success",
	"Pending":     "badge-warning",
	"Submitted":   "badge-info",
	"Overdue":     "badge-danger",
	"Rejected":    "badge-danger",
	"Surrendered": "badge-muted",
	"NotApplied":  "badge-muted",
}

// BadgeClass maps a status to its badge style. Unknown statuses render
// unstyled instead of failing.
func BadgeClass(status string) string {
	if c, ok := badgeClasses[status]; ok {
		return c
	}
	return BadgeUnstyled
}
