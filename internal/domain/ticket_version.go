package domain

import "time"

// TicketVersion is one immutable snapshot of a logical ticket as read
// from the ticket_details view. Tickets are never updated in place:
// every edit appends a new row sharing the same TicketNumber, and the
// current state of a ticket is derived by taking the version with the
// latest CreatedAt.
type TicketVersion struct {
	TicketNumber    string
	Version         int
	CreatedAt       time.Time
	DueDate         *time.Time
	IncidentDate    *time.Time
	StatusChangedAt *time.Time
	StatusName      string
	LeadTimeDays    *float64
	AssignedTo      *string
	Accountability  *string
	DepartmentName  string
	KPIName         string
	VendorCode      string
}
