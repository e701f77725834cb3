// Package authz holds the pure authorization policy. Decisions are
// computed from typed role/action variants so that an unhandled
// combination fails compilation instead of silently denying.
package authz

import "github.com/spec-kit/helpdesk/internal/domain"

// TicketAction enumerates the operations the policy rules on.
type TicketAction int

const (
	ActionViewTicket TicketAction = iota
	ActionChangeStatus
	ActionAssignTicket
	ActionComment
)

// CanTicket decides whether the acting user may perform action on the
// ticket. It never touches storage; callers resolve the ticket first
// (absent tickets are a NotFound concern, not a policy one).
func CanTicket(actor *domain.User, action TicketAction, ticket *domain.Ticket) bool {
	if actor == nil || ticket == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSupportAgent:
		switch action {
		case ActionViewTicket, ActionChangeStatus, ActionAssignTicket, ActionComment:
			return agentScope(actor.ID, ticket)
		}
		return false
	case domain.RoleUser:
		switch action {
		case ActionViewTicket, ActionChangeStatus, ActionComment:
			return ticket.CreatedBy.ID == actor.ID
		case ActionAssignTicket:
			return false
		}
		return false
	}
	return false
}

// agentScope is the visibility predicate for support agents: tickets
// assigned to them plus the shared open queue.
func agentScope(agentID string, ticket *domain.Ticket) bool {
	if ticket.AssignedTo != nil && ticket.AssignedTo.ID == agentID {
		return true
	}
	return ticket.Status == domain.TicketStatusOpen
}

// CanViewTicket reports list/read visibility. List filters and the
// single-ticket policy check must agree; both funnel through here.
func CanViewTicket(actor *domain.User, ticket *domain.Ticket) bool {
	return CanTicket(actor, ActionViewTicket, ticket)
}

// CanManageUsers gates the user-management endpoints.
func CanManageUsers(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSupportAgent, domain.RoleUser:
		return false
	}
	return false
}

// CanViewAnalytics gates the analytics endpoints.
func CanViewAnalytics(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleSupportAgent:
		return true
	case domain.RoleUser:
		return false
	}
	return false
}
