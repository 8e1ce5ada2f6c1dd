package repository

import (
	"context"
	"database/sql"

	"slotswap/core/database"
	"slotswap/core/logger"
	"slotswap/modules/swap/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SwapRepository is the ledger of swap requests (swap_requests table).
// It performs raw reads and writes only; business validation and the
// coupled slot transitions belong to the swap service.
type SwapRepository struct {
	DB database.Database
}

// NewSwapRepository creates a new repository instance
func NewSwapRepository(db database.Database) *SwapRepository {
	return &SwapRepository{DB: db}
}

// SwapRepositoryInterface defines the ledger contract. Methods taking a
// database.Queryer participate in a caller-owned transaction.
type SwapRepositoryInterface interface {
	Create(ctx context.Context, q database.Queryer, request *entity.SwapRequest) (*entity.SwapRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error)
	Transition(ctx context.Context, q database.Queryer, id uuid.UUID, expected, next entity.Status) (bool, error)
	ListIncoming(ctx context.Context, receiverID uuid.UUID) ([]entity.EnrichedRequest, error)
	ListOutgoing(ctx context.Context, requesterID uuid.UUID) ([]entity.EnrichedRequest, error)
}

// Create inserts a PENDING request. Runs through the coordinator's
// transaction so the insert and both slot transitions commit as one unit.
func (r *SwapRepository) Create(ctx context.Context, q database.Queryer, request *entity.SwapRequest) (*entity.SwapRequest, error) {
	query := `
		INSERT INTO swap_requests (requester_id, receiver_id, my_slot_id, their_slot_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, requester_id, receiver_id, my_slot_id, their_slot_id, status, created_at
	`

	var created entity.SwapRequest
	err := sqlx.GetContext(ctx, q, &created, query,
		request.RequesterID, request.ReceiverID, request.MySlotID, request.TheirSlotID, request.Status)
	if err != nil {
		logger.Error("SwapRepository:Create", "error", err)
		return nil, err
	}

	return &created, nil
}

func (r *SwapRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error) {
	query := `
		SELECT id, requester_id, receiver_id, my_slot_id, their_slot_id, status, created_at
		FROM swap_requests WHERE id = $1
	`

	var request entity.SwapRequest
	err := r.DB.GetContext(ctx, &request, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SwapRepository:GetByID", "error", err)
		return nil, err
	}

	return &request, nil
}

// Transition moves a request to its next status only while the row still
// holds the expected one. Returns false when another answer got there
// first, which the caller must treat as an abort.
func (r *SwapRepository) Transition(ctx context.Context, q database.Queryer, id uuid.UUID, expected, next entity.Status) (bool, error) {
	query := `UPDATE swap_requests SET status = $1 WHERE id = $2 AND status = $3`

	result, err := q.ExecContext(ctx, query, next, id, expected)
	if err != nil {
		logger.Error("SwapRepository:Transition", "error", err, "request_id", id)
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		logger.Error("SwapRepository:Transition", "error", err, "request_id", id)
		return false, err
	}

	return rows == 1, nil
}

// ListIncoming returns requests awaiting or answered by the given
// receiver, newest first, with requester name and both slot titles.
func (r *SwapRepository) ListIncoming(ctx context.Context, receiverID uuid.UUID) ([]entity.EnrichedRequest, error) {
	query := `
		SELECT sr.id,
		       u.name AS counterpart_name,
		       e1.title AS offered_slot_title,
		       e2.title AS wanted_slot_title,
		       sr.status,
		       sr.created_at
		FROM swap_requests sr
		JOIN users u ON sr.requester_id = u.id
		JOIN events e1 ON sr.my_slot_id = e1.id
		JOIN events e2 ON sr.their_slot_id = e2.id
		WHERE sr.receiver_id = $1
		ORDER BY sr.created_at DESC
	`

	var requests []entity.EnrichedRequest
	err := r.DB.SelectContext(ctx, &requests, query, receiverID)
	if err != nil {
		logger.Error("SwapRepository:ListIncoming", "error", err)
		return nil, err
	}

	return requests, nil
}

// ListOutgoing returns requests the given user has proposed, newest first,
// with receiver name and both slot titles.
func (r *SwapRepository) ListOutgoing(ctx context.Context, requesterID uuid.UUID) ([]entity.EnrichedRequest, error) {
	query := `
		SELECT sr.id,
		       u.name AS counterpart_name,
		       e1.title AS offered_slot_title,
		       e2.title AS wanted_slot_title,
		       sr.status,
		       sr.created_at
		FROM swap_requests sr
		JOIN users u ON sr.receiver_id = u.id
		JOIN events e1 ON sr.my_slot_id = e1.id
		JOIN events e2 ON sr.their_slot_id = e2.id
		WHERE sr.requester_id = $1
		ORDER BY sr.created_at DESC
	`

	var requests []entity.EnrichedRequest
	err := r.DB.SelectContext(ctx, &requests, query, requesterID)
	if err != nil {
		logger.Error("SwapRepository:ListOutgoing", "error", err)
		return nil, err
	}

	return requests, nil
}
