package repository

import (
	"context"
	"database/sql"
	"time"

	"slotswap/core/database"
	"slotswap/core/logger"
	"slotswap/modules/event/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// EventRepository handles event slot database operations (events table)
type EventRepository struct {
	DB database.Database
}

// NewEventRepository creates a new repository instance
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract. Methods taking
// a database.Queryer participate in a caller-owned transaction.
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetByIDTx(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Event, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Event, error)
	ListByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status entity.Status) ([]entity.Event, error)
	ListSwappable(ctx context.Context, excludingOwnerID uuid.UUID) ([]entity.SwappableSpot, error)
	ConditionalTransition(ctx context.Context, q database.Queryer, id uuid.UUID, expected, next entity.Status) (bool, error)
	SetSchedule(ctx context.Context, q database.Queryer, id uuid.UUID, start, end time.Time, status entity.Status) error
}

func (r *EventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (title, start_time, end_time, status, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, start_time, end_time, status, user_id
	`

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.Title, event.StartTime, event.EndTime, event.Status, event.UserID)
	if err != nil {
		logger.Error("EventRepository:Create", "error", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	return r.getByID(ctx, r.DB.Queryer(), id)
}

// GetByIDTx reads a slot through an open transaction so the coordinator's
// re-reads observe its own uncommitted writes.
func (r *EventRepository) GetByIDTx(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Event, error) {
	return r.getByID(ctx, q, id)
}

func (r *EventRepository) getByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, title, start_time, end_time, status, user_id
		FROM events WHERE id = $1
	`

	var event entity.Event
	err := sqlx.GetContext(ctx, q, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID", "error", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Event, error) {
	query := `
		SELECT id, title, start_time, end_time, status, user_id
		FROM events
		WHERE user_id = $1
		ORDER BY start_time
	`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, ownerID)
	if err != nil {
		logger.Error("EventRepository:ListByOwner", "error", err)
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) ListByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status entity.Status) ([]entity.Event, error) {
	query := `
		SELECT id, title, start_time, end_time, status, user_id
		FROM events
		WHERE user_id = $1 AND status = $2
		ORDER BY start_time, id
	`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, ownerID, status)
	if err != nil {
		logger.Error("EventRepository:ListByOwnerAndStatus", "error", err)
		return nil, err
	}

	return events, nil
}

// ListSwappable returns every swappable slot not owned by the caller, with
// the owner's display name joined in. Ordered by start time, id as the
// deterministic tiebreak.
func (r *EventRepository) ListSwappable(ctx context.Context, excludingOwnerID uuid.UUID) ([]entity.SwappableSpot, error) {
	query := `
		SELECT e.id, e.title, e.start_time, e.end_time, e.status, u.name AS owner_name
		FROM events e
		JOIN users u ON e.user_id = u.id
		WHERE e.status = $1 AND e.user_id != $2
		ORDER BY e.start_time, e.id
	`

	var spots []entity.SwappableSpot
	err := r.DB.SelectContext(ctx, &spots, query, entity.StatusSwappable, excludingOwnerID)
	if err != nil {
		logger.Error("EventRepository:ListSwappable", "error", err)
		return nil, err
	}

	return spots, nil
}

// ConditionalTransition applies expected→next only when the row still holds
// the expected status, and reports whether the update landed. This is the
// sole concurrency primitive: a false return means another transaction got
// to the slot first.
func (r *EventRepository) ConditionalTransition(ctx context.Context, q database.Queryer, id uuid.UUID, expected, next entity.Status) (bool, error) {
	query := `UPDATE events SET status = $1 WHERE id = $2 AND status = $3`

	res, err := q.ExecContext(ctx, query, next, id, expected)
	if err != nil {
		logger.Error("EventRepository:ConditionalTransition", "error", err, "event_id", id)
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		logger.Error("EventRepository:ConditionalTransition:RowsAffected", "error", err, "event_id", id)
		return false, err
	}

	return affected == 1, nil
}

// SetSchedule rewrites a slot's time window and status in one statement.
// Used only by the coordinator's accept path, inside its transaction.
func (r *EventRepository) SetSchedule(ctx context.Context, q database.Queryer, id uuid.UUID, start, end time.Time, status entity.Status) error {
	query := `UPDATE events SET start_time = $1, end_time = $2, status = $3 WHERE id = $4`

	if _, err := q.ExecContext(ctx, query, start, end, status, id); err != nil {
		logger.Error("EventRepository:SetSchedule", "error", err, "event_id", id)
		return err
	}

	return nil
}
