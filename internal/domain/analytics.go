package domain

import "time"

// Period is the trailing date range analytics are computed over.
type Period string

const (
	Period7Days  Period = "7days"
	Period30Days Period = "30days"
	Period90Days Period = "90days"
	PeriodAll    Period = "all"
)

// ParsePeriod maps a query-string value to a Period, defaulting to
// all-time for unknown values.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case Period7Days, Period30Days, Period90Days:
		return Period(s)
	}
	return PeriodAll
}

// Days returns the window length in days, 0 meaning all-time.
func (p Period) Days() int {
	switch p {
	case Period7Days:
		return 7
	case Period30Days:
		return 30
	case Period90Days:
		return 90
	}
	return 0
}

// Start returns the lower bound of the window relative to now, or nil
// for the all-time period.
func (p Period) Start(now time.Time) *time.Time {
	days := p.Days()
	if days == 0 {
		return nil
	}
	start := now.AddDate(0, 0, -days)
	return &start
}

// StatusCounts buckets tickets by lifecycle state.
type StatusCounts struct {
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
}

// PriorityCounts buckets tickets by urgency.
type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// DayBucket is one calendar-day slot in the ticket time series.
type DayBucket struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

// TicketStats summarizes tickets created within the window.
type TicketStats struct {
	Total        int            `json:"total"`
	ByStatus     StatusCounts   `json:"byStatus"`
	ByPriority   PriorityCounts `json:"byPriority"`
	ByDay        []DayBucket    `json:"byDay"`
	ResponseTime float64        `json:"responseTime"`
}

// RoleCounts buckets users by role.
type RoleCounts struct {
	Admin        int `json:"admin"`
	SupportAgent int `json:"support_agent"`
	User         int `json:"user"`
}

// UserStats summarizes the user population.
type UserStats struct {
	Total       int        `json:"total"`
	ByRole      RoleCounts `json:"byRole"`
	ActiveUsers int        `json:"activeUsers"`
}

// PerformanceStats carries derived resolution metrics.
type PerformanceStats struct {
	ResolutionRate    int     `json:"resolutionRate"`
	AvgResolutionTime float64 `json:"avgResolutionTime"`
	Satisfaction      int     `json:"satisfaction"`
}

// AgentPerformance is the per-agent slice of the report, scoped to the
// agent's assigned tickets within the window.
type AgentPerformance struct {
	AgentName         string  `json:"agentName"`
	AgentEmail        string  `json:"agentEmail"`
	AssignedTickets   int     `json:"assignedTickets"`
	ResolvedTickets   int     `json:"resolvedTickets"`
	ResolutionRate    int     `json:"resolutionRate"`
	AvgResolutionTime float64 `json:"avgResolutionTime"`
	Satisfaction      int     `json:"satisfaction"`
}

// AnalyticsReport is the full aggregate returned by the analytics
// endpoint.
type AnalyticsReport struct {
	Tickets          TicketStats        `json:"tickets"`
	Users            UserStats          `json:"users"`
	Performance      PerformanceStats   `json:"performance"`
	AgentPerformance []AgentPerformance `json:"agentPerformance"`
}
