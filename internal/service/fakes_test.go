package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// In-memory repository fakes mirroring the store's filter and
// last-write-wins semantics.

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	clock   time.Time
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		clock:   time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		tickets: make(map[string]*domain.Ticket),
	}
}

func (f *fakeTicketRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", f.seq)
	now := f.tick()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	f.tickets[ticket.ID] = copyTicket(ticket)
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyTicket(stored), nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = ticket.Status
	if ticket.AssignedTo != nil {
		ref := *ticket.AssignedTo
		stored.AssignedTo = &ref
	} else {
		stored.AssignedTo = nil
	}
	stored.UpdatedAt = f.tick()
	return nil
}

func (f *fakeTicketRepo) AppendComment(_ context.Context, ticketID string, comment domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.tickets[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Comments = append(stored.Comments, comment)
	stored.UpdatedAt = f.tick()
	return nil
}

func (f *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Ticket
	for _, stored := range f.tickets {
		if !matchesFilter(stored, filter) {
			continue
		}
		result = append(result, *copyTicket(stored))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func matchesFilter(t *domain.Ticket, filter repository.TicketFilter) bool {
	if filter.CreatedBy != nil && t.CreatedBy.ID != *filter.CreatedBy {
		return false
	}
	if filter.VisibleToAgent != nil {
		assigned := t.AssignedTo != nil && t.AssignedTo.ID == *filter.VisibleToAgent
		if !assigned && t.Status != domain.TicketStatusOpen {
			return false
		}
	}
	if filter.AssignedTo != nil {
		if t.AssignedTo == nil || t.AssignedTo.ID != *filter.AssignedTo {
			return false
		}
	}
	if filter.CreatedFrom != nil && t.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && t.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	return true
}

func copyTicket(t *domain.Ticket) *domain.Ticket {
	dup := *t
	if t.AssignedTo != nil {
		ref := *t.AssignedTo
		dup.AssignedTo = &ref
	}
	dup.Comments = append([]domain.Comment(nil), t.Comments...)
	return &dup
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	user.ID = fmt.Sprintf("user-%d", f.seq)
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	dup := *user
	f.users[user.ID] = &dup
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	dup := *user
	return &dup, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			dup := *user
			return &dup, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.User
	for _, user := range f.users {
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	all, _ := f.List(context.Background())
	var result []domain.User
	for _, user := range all {
		if user.Role == role {
			result = append(result, user)
		}
	}
	return result, nil
}

func (f *fakeUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.LastLogin = &at
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}
