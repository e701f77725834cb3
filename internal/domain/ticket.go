package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether the status is one of the known variants.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Terminal reports whether the ticket counts as resolved for
// analytics purposes.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Valid reports whether the priority is one of the known variants.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// UserRef is a populated reference to a user embedded in ticket reads.
// A reference to a deleted account keeps its id and carries the
// DeletedUserName placeholder.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DeletedUserName is the populated name for references whose user row
// no longer exists.
const DeletedUserName = "Deleted User"

// Comment is a thread entry embedded in its ticket. The author's name
// and role are frozen at post time and never re-synced with later
// profile changes. Once appended a comment is immutable.
type Comment struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserRole  Role      `json:"user_role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Ticket is the aggregate for support requests. CreatedBy is set once
// at creation; status and assignment are the only fields mutable after
// that, and the comment thread only grows.
type Ticket struct {
	ID          string
	Subject     string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
	CreatedBy   UserRef
	AssignedTo  *UserRef
	Comments    []Comment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
