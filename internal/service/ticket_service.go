package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/authz"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketService coordinates the ticket lifecycle: creation, the
// permissive status workflow, assignment, and the append-only comment
// thread. Every mutation is policy-checked before any write.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles requirements for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Description string
	Priority    domain.TicketPriority
}

// TicketUpdateInput describes the mutable-field update. A nil Status
// leaves status untouched. Assignment changes are tri-state: absent,
// set to a user, or explicit null to clear.
type TicketUpdateInput struct {
	Status        *domain.TicketStatus
	AssigneeID    *string
	ClearAssignee bool
}

// Create validates and persists a new ticket owned by the caller.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	details := map[string]any{}
	if strings.TrimSpace(input.Subject) == "" {
		details["subject"] = "required"
	}
	if strings.TrimSpace(input.Description) == "" {
		details["description"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("subject and description are required", details)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(priority)})
	}

	ticket := &domain.Ticket{
		Subject:     strings.TrimSpace(input.Subject),
		Description: strings.TrimSpace(input.Description),
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   domain.UserRef{ID: actor.ID, Name: actor.Name, Email: actor.Email},
		Comments:    []domain.Comment{},
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketCreatedPayload{
			Subject:  ticket.Subject,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// Get fetches a single ticket the caller is allowed to see.
func (s *TicketService) Get(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// Update applies status and/or assignment changes. There is no
// enforced transition graph: any status is reachable from any status.
// All checks run before the first write; concurrent updates follow the
// store's last-write-wins semantics.
func (s *TicketService) Update(ctx context.Context, actor *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(*input.Status)})
	}

	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	assignmentChange := input.AssigneeID != nil || input.ClearAssignee
	if input.Status != nil && !authz.CanTicket(actor, authz.ActionChangeStatus, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if assignmentChange && !authz.CanTicket(actor, authz.ActionAssignTicket, ticket) {
		return nil, apperrors.NewForbidden("insufficient permissions to reassign")
	}

	oldStatus := ticket.Status
	oldAssignee := refID(ticket.AssignedTo)
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if input.ClearAssignee {
		ticket.AssignedTo = nil
	} else if input.AssigneeID != nil {
		ticket.AssignedTo = &domain.UserRef{ID: *input.AssigneeID}
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.Status != nil && oldStatus != ticket.Status {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    actorOf(actor),
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	if assignmentChange && oldAssignee != refID(ticket.AssignedTo) {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Actor:    actorOf(actor),
			Payload: events.TicketAssignedPayload{
				AssigneeID: refID(ticket.AssignedTo),
			},
		})
	}

	// re-read for populated references
	return s.fetch(ctx, ticket.ID)
}

// AddComment appends a comment carrying a frozen snapshot of the
// author's current name and role.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID, text string) (*domain.Ticket, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("comment text is required", map[string]any{"text": "required"})
	}

	ticket, err := s.fetch(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !authz.CanTicket(actor, authz.ActionComment, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	comment := domain.Comment{
		UserID:    actor.ID,
		UserName:  actor.Name,
		UserRole:  actor.Role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tickets.AppendComment(ctx, ticket.ID, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketCommentAddedPayload{
			AuthorRole:  actor.Role,
			BodyPreview: preview(text, 120),
		},
	})

	return s.fetch(ctx, ticket.ID)
}

// List returns the tickets visible to the caller, newest first. The
// filter mirrors authz.CanViewTicket per role.
func (s *TicketService) List(ctx context.Context, actor *domain.User) ([]domain.Ticket, error) {
	filter := ListFilterFor(actor)
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// ListFilterFor derives the role-specific listing predicate: admins
// see everything, agents their assigned tickets plus the open queue,
// users only what they created.
func ListFilterFor(actor *domain.User) repository.TicketFilter {
	filter := repository.TicketFilter{}
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleSupportAgent:
		filter.VisibleToAgent = &actor.ID
	case domain.RoleUser:
		filter.CreatedBy = &actor.ID
	}
	return filter
}

func (s *TicketService) fetch(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorOf(user *domain.User) events.Actor {
	return events.Actor{UserID: user.ID, Role: user.Role}
}

func refID(ref *domain.UserRef) *string {
	if ref == nil {
		return nil
	}
	return &ref.ID
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
