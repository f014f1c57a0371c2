package domain

// KPI is a grouping-directory entity for per-KPI reports.
type KPI struct {
	ID             string
	Name           string
	DepartmentName string
}
