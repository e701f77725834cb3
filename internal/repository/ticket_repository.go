package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketFilter captures the role-derived listing predicates. At most
// one of CreatedBy / VisibleToAgent is set; both nil means all tickets.
type TicketFilter struct {
	// CreatedBy restricts to tickets the given user created.
	CreatedBy *string
	// VisibleToAgent restricts to tickets assigned to the given agent
	// plus the shared open queue.
	VisibleToAgent *string
	// AssignedTo restricts to tickets assigned to the given user.
	AssignedTo  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// Update writes the mutable fields (status, assignment) and
	// advances updated_at. Last write wins on concurrent updates.
	Update(ctx context.Context, ticket *domain.Ticket) error
	// AppendComment atomically appends one comment to the ticket's
	// embedded thread in a single document write.
	AppendComment(ctx context.Context, ticketID string, comment domain.Comment) error
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (subject, description, priority, status, created_by)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Subject,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.CreatedBy.ID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, assigned_to=$2, updated_at=NOW()
        WHERE id=$3`
	var assignedTo *string
	if ticket.AssignedTo != nil {
		assignedTo = &ticket.AssignedTo.ID
	}
	cmd, err := r.pool.Exec(ctx, query, ticket.Status, assignedTo, ticket.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) AppendComment(ctx context.Context, ticketID string, comment domain.Comment) error {
	payload, err := json.Marshal(comment)
	if err != nil {
		return err
	}
	const query = `
        UPDATE tickets
        SET comments = comments || jsonb_build_array($1::jsonb), updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, payload, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// populatedSelect joins users twice to resolve createdBy/assignedTo
// into embedded user summaries.
const populatedSelect = `
        SELECT t.id, t.subject, t.description, t.priority, t.status,
               t.created_by, cu.name, cu.email,
               t.assigned_to, au.name, au.email,
               t.comments, t.created_at, t.updated_at
        FROM tickets t
        LEFT JOIN users cu ON cu.id = t.created_by
        LEFT JOIN users au ON au.id = t.assigned_to`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := populatedSelect + ` WHERE t.id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	ticket, err := scanTicket(row)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("t.created_by=$%d", len(args)))
	}
	if filter.VisibleToAgent != nil {
		args = append(args, *filter.VisibleToAgent)
		clauses = append(clauses, fmt.Sprintf("(t.assigned_to=$%d OR t.status='open')", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("t.assigned_to=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("t.created_at <= $%d", len(args)))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY t.created_at DESC",
		populatedSelect, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket        domain.Ticket
		creatorName   *string
		creatorEmail  *string
		assigneeID    *string
		assigneeName  *string
		assigneeEmail *string
		commentsRaw   []byte
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedBy.ID,
		&creatorName,
		&creatorEmail,
		&assigneeID,
		&assigneeName,
		&assigneeEmail,
		&commentsRaw,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}

	ticket.CreatedBy = populateRef(ticket.CreatedBy.ID, creatorName, creatorEmail)
	if assigneeID != nil {
		ref := populateRef(*assigneeID, assigneeName, assigneeEmail)
		ticket.AssignedTo = &ref
	}
	if len(commentsRaw) > 0 {
		if err := json.Unmarshal(commentsRaw, &ticket.Comments); err != nil {
			return nil, err
		}
	}
	if ticket.Comments == nil {
		ticket.Comments = []domain.Comment{}
	}
	return &ticket, nil
}

// populateRef resolves a user reference; deleted users keep their id
// under a tombstone name.
func populateRef(id string, name, email *string) domain.UserRef {
	ref := domain.UserRef{ID: id, Name: domain.DeletedUserName}
	if name != nil {
		ref.Name = *name
	}
	if email != nil {
		ref.Email = *email
	}
	return ref
}
