package domain

// AssignableUser is a grouping-directory entity for per-user reports.
type AssignableUser struct {
	ID       string
	FullName string
}
