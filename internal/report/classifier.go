package report

import "strings"

// StatusClassifier maps a free-text status label to the semantic
// classes the scorer cares about. Statuses in the portal are
// operator-managed text, not an enum, so the default classification
// is substring-based.
type StatusClassifier interface {
	// IsResolved reports whether the ticket counts as resolved.
	IsResolved(statusName string) bool
	// IsClosed reports whether the ticket counts as closed for
	// overdue purposes. Narrower than IsResolved.
	IsClosed(statusName string) bool
	// IsReopened reports whether the ticket was reopened.
	IsReopened(statusName string) bool
}

// SubstringClassifier implements the portal's historical
// case-insensitive substring matching.
type SubstringClassifier struct{}

func (SubstringClassifier) IsResolved(statusName string) bool {
	s := strings.ToLower(statusName)
	return strings.Contains(s, "closed") || strings.Contains(s, "resolved")
}

func (SubstringClassifier) IsClosed(statusName string) bool {
	return strings.Contains(strings.ToLower(statusName), "closed")
}

func (SubstringClassifier) IsReopened(statusName string) bool {
	return strings.Contains(strings.ToLower(statusName), "reopened")
}
