package domain

// ReferenceItem is an id/name pair backing the report filter
// dropdowns (departments, service providers, statuses).
type ReferenceItem struct {
	ID   string
	Name string
}
