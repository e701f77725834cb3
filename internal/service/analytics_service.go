package service

import (
	"context"
	"math"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// responseTime and satisfaction are placeholders, not measurements:
// there is no first-response timestamp or feedback entity to derive
// them from yet. They must read as fixed values, never as real data.
const (
	placeholderResponseTimeHours = 2.5
	placeholderSatisfaction      = 92
	placeholderAgentSatisfaction = 90
	activeUserWindowDays         = 30
	allTimeSeriesDays            = 90
)

// AnalyticsService derives summary statistics over the ticket and user
// collections. It is a pure read side: full recomputation per request,
// no caching, no mutation.
type AnalyticsService struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
	now     func() time.Time
}

// NewAnalyticsService builds the service.
func NewAnalyticsService(tickets repository.TicketRepository, users repository.UserRepository) *AnalyticsService {
	return &AnalyticsService{tickets: tickets, users: users, now: time.Now}
}

// Report computes the full aggregate for the given trailing window.
func (s *AnalyticsService) Report(ctx context.Context, period domain.Period) (*domain.AnalyticsReport, error) {
	now := s.now()
	tickets, users, err := s.load(ctx, period, now)
	if err != nil {
		return nil, err
	}
	report := BuildReport(tickets, users, period, now)
	return &report, nil
}

// TicketsOverTime computes only the per-day series for chart views.
func (s *AnalyticsService) TicketsOverTime(ctx context.Context, period domain.Period) ([]domain.DayBucket, error) {
	now := s.now()
	tickets, err := s.loadTickets(ctx, period, now)
	if err != nil {
		return nil, err
	}
	return TicketsByDay(tickets, period, now), nil
}

// AgentPerformance computes only the per-agent slice.
func (s *AnalyticsService) AgentPerformance(ctx context.Context, period domain.Period) ([]domain.AgentPerformance, error) {
	now := s.now()
	tickets, err := s.loadTickets(ctx, period, now)
	if err != nil {
		return nil, err
	}
	agents, err := s.users.ListByRole(ctx, domain.RoleSupportAgent)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return AgentPerformanceOver(agents, tickets), nil
}

func (s *AnalyticsService) load(ctx context.Context, period domain.Period, now time.Time) ([]domain.Ticket, []domain.User, error) {
	tickets, err := s.loadTickets(ctx, period, now)
	if err != nil {
		return nil, nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return tickets, users, nil
}

func (s *AnalyticsService) loadTickets(ctx context.Context, period domain.Period, now time.Time) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{CreatedFrom: period.Start(now)}
	if filter.CreatedFrom != nil {
		filter.CreatedTo = &now
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// BuildReport is the pure aggregation over already-windowed tickets
// and the full user collection.
func BuildReport(tickets []domain.Ticket, users []domain.User, period domain.Period, now time.Time) domain.AnalyticsReport {
	var byStatus domain.StatusCounts
	var byPriority domain.PriorityCounts
	for _, t := range tickets {
		switch t.Status {
		case domain.TicketStatusOpen:
			byStatus.Open++
		case domain.TicketStatusInProgress:
			byStatus.InProgress++
		case domain.TicketStatusResolved:
			byStatus.Resolved++
		case domain.TicketStatusClosed:
			byStatus.Closed++
		}
		switch t.Priority {
		case domain.TicketPriorityHigh:
			byPriority.High++
		case domain.TicketPriorityMedium:
			byPriority.Medium++
		case domain.TicketPriorityLow:
			byPriority.Low++
		}
	}

	var byRole domain.RoleCounts
	activeUsers := 0
	activeCutoff := now.AddDate(0, 0, -activeUserWindowDays)
	agents := make([]domain.User, 0)
	for _, u := range users {
		switch u.Role {
		case domain.RoleAdmin:
			byRole.Admin++
		case domain.RoleSupportAgent:
			byRole.SupportAgent++
			agents = append(agents, u)
		case domain.RoleUser:
			byRole.User++
		}
		if u.LastLogin != nil && u.LastLogin.After(activeCutoff) {
			activeUsers++
		}
	}

	resolved := byStatus.Resolved + byStatus.Closed

	return domain.AnalyticsReport{
		Tickets: domain.TicketStats{
			Total:        len(tickets),
			ByStatus:     byStatus,
			ByPriority:   byPriority,
			ByDay:        TicketsByDay(tickets, period, now),
			ResponseTime: placeholderResponseTimeHours,
		},
		Users: domain.UserStats{
			Total:       len(users),
			ByRole:      byRole,
			ActiveUsers: activeUsers,
		},
		Performance: domain.PerformanceStats{
			ResolutionRate:    ratePercent(resolved, len(tickets)),
			AvgResolutionTime: avgResolutionDays(tickets),
			Satisfaction:      placeholderSatisfaction,
		},
		AgentPerformance: AgentPerformanceOver(agents, tickets),
	}
}

// TicketsByDay buckets tickets per UTC calendar day over the window.
// The 7-day window carries relative labels, longer windows a short
// calendar date.
func TicketsByDay(tickets []domain.Ticket, period domain.Period, now time.Time) []domain.DayBucket {
	days := period.Days()
	if days == 0 {
		days = allTimeSeriesDays
	}

	counts := make(map[string]int, len(tickets))
	for _, t := range tickets {
		counts[t.CreatedAt.UTC().Format("2006-01-02")]++
	}

	buckets := make([]domain.DayBucket, 0, days)
	for offset := days - 1; offset >= 0; offset-- {
		day := now.UTC().AddDate(0, 0, -offset)
		date := day.Format("2006-01-02")
		buckets = append(buckets, domain.DayBucket{
			Date:  date,
			Count: counts[date],
			Label: dayLabel(day, offset, days),
		})
	}
	return buckets
}

func dayLabel(day time.Time, offset, totalDays int) string {
	if totalDays == 7 {
		labels := [...]string{"Today", "1d", "2d", "3d", "4d", "5d", "6d"}
		if offset < len(labels) {
			return labels[offset]
		}
		return labels[len(labels)-1]
	}
	return day.Format("Jan 2")
}

// AgentPerformanceOver computes per-agent metrics scoped to the
// agent's assigned tickets within the already-windowed set.
func AgentPerformanceOver(agents []domain.User, tickets []domain.Ticket) []domain.AgentPerformance {
	result := make([]domain.AgentPerformance, 0, len(agents))
	for _, agent := range agents {
		assigned := make([]domain.Ticket, 0)
		for _, t := range tickets {
			if t.AssignedTo != nil && t.AssignedTo.ID == agent.ID {
				assigned = append(assigned, t)
			}
		}
		resolved := 0
		for _, t := range assigned {
			if t.Status.Terminal() {
				resolved++
			}
		}
		result = append(result, domain.AgentPerformance{
			AgentName:         agent.Name,
			AgentEmail:        agent.Email,
			AssignedTickets:   len(assigned),
			ResolvedTickets:   resolved,
			ResolutionRate:    ratePercent(resolved, len(assigned)),
			AvgResolutionTime: avgResolutionDays(assigned),
			Satisfaction:      placeholderAgentSatisfaction,
		})
	}
	return result
}

// ratePercent is part/total as a whole percentage, 0 when total is 0.
func ratePercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// avgResolutionDays is the mean creation-to-last-update span in days
// over resolved/closed tickets, rounded to one decimal. Tickets
// missing either timestamp are excluded, not zero-filled.
func avgResolutionDays(tickets []domain.Ticket) float64 {
	total := 0.0
	counted := 0
	for _, t := range tickets {
		if !t.Status.Terminal() {
			continue
		}
		if t.CreatedAt.IsZero() || t.UpdatedAt.IsZero() {
			continue
		}
		total += t.UpdatedAt.Sub(t.CreatedAt).Hours() / 24
		counted++
	}
	if counted == 0 {
		return 0
	}
	return math.Round(total/float64(counted)*10) / 10
}
