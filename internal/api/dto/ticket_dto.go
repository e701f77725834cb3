package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
}

// OptionalString distinguishes an absent JSON field from an explicit
// null, so `"assignedTo": null` clears the assignment while omitting
// the field leaves it untouched.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// UpdateTicketRequest payload; both fields are optional.
type UpdateTicketRequest struct {
	Status     *domain.TicketStatus `json:"status"`
	AssignedTo OptionalString       `json:"assignedTo"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Text string `json:"text"`
}

// UserRefResponse is a populated user reference.
type UserRefResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// CommentResponse is one immutable thread entry with the author
// snapshot taken at post time.
type CommentResponse struct {
	User      string      `json:"user"`
	UserName  string      `json:"userName"`
	UserRole  domain.Role `json:"userRole"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"createdAt"`
}

// TicketResponse is the full serialized ticket.
type TicketResponse struct {
	ID          string                `json:"id"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	CreatedBy   UserRefResponse       `json:"createdBy"`
	AssignedTo  *UserRefResponse      `json:"assignedTo"`
	Comments    []CommentResponse     `json:"comments"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// NewTicketResponse maps a domain ticket to its wire shape.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	comments := make([]CommentResponse, 0, len(ticket.Comments))
	for _, c := range ticket.Comments {
		comments = append(comments, CommentResponse{
			User:      c.UserID,
			UserName:  c.UserName,
			UserRole:  c.UserRole,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}

	resp := TicketResponse{
		ID:          ticket.ID,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		CreatedBy:   userRef(ticket.CreatedBy),
		Comments:    comments,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if ticket.AssignedTo != nil {
		ref := userRef(*ticket.AssignedTo)
		resp.AssignedTo = &ref
	}
	return resp
}

func userRef(ref domain.UserRef) UserRefResponse {
	return UserRefResponse{ID: ref.ID, Name: ref.Name, Email: ref.Email}
}
