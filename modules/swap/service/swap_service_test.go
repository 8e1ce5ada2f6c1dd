package service

import (
	"context"
	"maps"
	"testing"
	"time"

	"slotswap/core/database"
	apperrors "slotswap/core/errors"
	eventEntity "slotswap/modules/event/entity"
	"slotswap/modules/swap/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore backs both repository interfaces with in-memory maps and
// implements Transactor by snapshotting state before the function runs and
// restoring it on error, which mirrors the all-or-nothing commit the real
// store provides.
type fakeStore struct {
	events map[uuid.UUID]eventEntity.Event
	swaps  map[uuid.UUID]entity.SwapRequest

	// beforeTransition, when set, runs once before the next conditional
	// transition to emulate a concurrent writer sneaking in.
	beforeTransition func()

	// beforeTx, when set, runs once before the next transaction begins,
	// emulating a concurrent operation that commits between the service's
	// preliminary reads and its own transaction.
	beforeTx func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events: make(map[uuid.UUID]eventEntity.Event),
		swaps:  make(map[uuid.UUID]entity.SwapRequest),
	}
}

func (f *fakeStore) WithinTransaction(_ context.Context, fn func(q database.Queryer) error) error {
	if f.beforeTx != nil {
		hook := f.beforeTx
		f.beforeTx = nil
		hook()
	}
	eventsSnap := maps.Clone(f.events)
	swapsSnap := maps.Clone(f.swaps)
	if err := fn(nil); err != nil {
		f.events = eventsSnap
		f.swaps = swapsSnap
		return err
	}
	return nil
}

// ---- EventRepositoryInterface ----

func (f *fakeStore) Create(_ context.Context, event *eventEntity.Event) (*eventEntity.Event, error) {
	created := *event
	created.ID = uuid.New()
	f.events[created.ID] = created
	return &created, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*eventEntity.Event, error) {
	if ev, ok := f.events[id]; ok {
		copied := ev
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStore) GetByIDTx(ctx context.Context, _ database.Queryer, id uuid.UUID) (*eventEntity.Event, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]eventEntity.Event, error) {
	var out []eventEntity.Event
	for _, ev := range f.events {
		if ev.UserID == ownerID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByOwnerAndStatus(_ context.Context, ownerID uuid.UUID, status eventEntity.Status) ([]eventEntity.Event, error) {
	var out []eventEntity.Event
	for _, ev := range f.events {
		if ev.UserID == ownerID && ev.Status == status {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeStore) ListSwappable(_ context.Context, excludingOwnerID uuid.UUID) ([]eventEntity.SwappableSpot, error) {
	return nil, nil
}

func (f *fakeStore) ConditionalTransition(_ context.Context, _ database.Queryer, id uuid.UUID, expected, next eventEntity.Status) (bool, error) {
	if f.beforeTransition != nil {
		hook := f.beforeTransition
		f.beforeTransition = nil
		hook()
	}
	ev, ok := f.events[id]
	if !ok || ev.Status != expected {
		return false, nil
	}
	ev.Status = next
	f.events[id] = ev
	return true, nil
}

func (f *fakeStore) SetSchedule(_ context.Context, _ database.Queryer, id uuid.UUID, start, end time.Time, status eventEntity.Status) error {
	ev := f.events[id]
	ev.StartTime = start
	ev.EndTime = end
	ev.Status = status
	f.events[id] = ev
	return nil
}

// ---- SwapRepositoryInterface ----

func (f *fakeStore) CreateRequest(_ context.Context, _ database.Queryer, request *entity.SwapRequest) (*entity.SwapRequest, error) {
	created := *request
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	f.swaps[created.ID] = created
	return &created, nil
}

func (f *fakeStore) GetRequestByID(_ context.Context, id uuid.UUID) (*entity.SwapRequest, error) {
	if req, ok := f.swaps[id]; ok {
		copied := req
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStore) Transition(_ context.Context, _ database.Queryer, id uuid.UUID, expected, next entity.Status) (bool, error) {
	req, ok := f.swaps[id]
	if !ok || req.Status != expected {
		return false, nil
	}
	req.Status = next
	f.swaps[id] = req
	return true, nil
}

func (f *fakeStore) ListIncoming(_ context.Context, _ uuid.UUID) ([]entity.EnrichedRequest, error) {
	return nil, nil
}

func (f *fakeStore) ListOutgoing(_ context.Context, _ uuid.UUID) ([]entity.EnrichedRequest, error) {
	return nil, nil
}

// swapLedger adapts fakeStore to SwapRepositoryInterface, whose Create and
// GetByID names collide with the event repository's.
type swapLedger struct{ *fakeStore }

func (l swapLedger) Create(ctx context.Context, q database.Queryer, request *entity.SwapRequest) (*entity.SwapRequest, error) {
	return l.CreateRequest(ctx, q, request)
}

func (l swapLedger) GetByID(ctx context.Context, id uuid.UUID) (*entity.SwapRequest, error) {
	return l.GetRequestByID(ctx, id)
}

func newService(store *fakeStore) *SwapService {
	return NewSwapService(swapLedger{store}, store, store)
}

func seedSlot(store *fakeStore, owner uuid.UUID, title string, start, end time.Time, status eventEntity.Status) uuid.UUID {
	id := uuid.New()
	store.events[id] = eventEntity.Event{
		ID:        id,
		Title:     title,
		StartTime: start,
		EndTime:   end,
		Status:    status,
		UserID:    owner,
	}
	return id
}

func at(hour int) time.Time {
	return time.Date(2026, time.March, 2, hour, 0, 0, 0, time.UTC)
}

func TestProposeSwapCreatesPendingRequestAndHoldsBothSlots(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	u1, u2 := uuid.New(), uuid.New()
	e1 := seedSlot(store, u1, "morning shift", at(10), at(11), eventEntity.StatusSwappable)
	e2 := seedSlot(store, u2, "afternoon shift", at(14), at(15), eventEntity.StatusSwappable)

	created, err := svc.ProposeSwap(context.Background(), u1, e1, e2)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPending, created.Status)
	assert.Equal(t, u1, created.RequesterID)
	assert.Equal(t, u2, created.ReceiverID)
	assert.Equal(t, e1, created.MySlotID)
	assert.Equal(t, e2, created.TheirSlotID)

	assert.Equal(t, eventEntity.StatusSwapPending, store.events[e1].Status)
	assert.Equal(t, eventEntity.StatusSwapPending, store.events[e2].Status)
}

func TestProposeSwapFailsWhenCallerDoesNotOwnOfferedSlot(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	u1, u2 := uuid.New(), uuid.New()
	e1 := seedSlot(store, u2, "not mine", at(10), at(11), eventEntity.StatusSwappable)
	e2 := seedSlot(store, u2, "theirs", at(14), at(15), eventEntity.StatusSwappable)

	_, err := svc.ProposeSwap(context.Background(), u1, e1, e2)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(err))
	assert.Empty(t, store.swaps)
}

func TestProposeSwapFailsWhenOfferedSlotNotSwappable(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	u1, u2 := uuid.New(), uuid.New()
	e1 := seedSlot(store, u1, "busy", at(10), at(11), eventEntity.StatusBusy)
	e2 := seedSlot(store, u2, "theirs", at(14), at(15), eventEntity.StatusSwappable)

	_, err := svc.ProposeSwap(context.Background(), u1, e1, e2)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(err))
	assert.Empty(t, store.swaps)
}

func TestProposeSwapFailsWhenTargetSlotMissing(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	u1 := uuid.New()
	e1 := seedSlot(store, u1, "mine", at(10), at(11), eventEntity.StatusSwappable)

	_, err := svc.ProposeSwap(context.Background(), u1, e1, uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestProposeSwapRejectsSelfSwap(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	u1 := uuid.New()
	e1 := seedSlot(store, u1, "mine a", at(10), at(11), eventEntity.StatusSwappable)
	e2 := seedSlot(store, u1, "mine b", at(14), at(15), eventEntity.StatusSwappable)

	_, err := svc.ProposeSwap(context.Background(), u1, e1, e2)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidInput, apperrors.CodeOf(err))
	assert.Empty(t, store.swaps)
}

func TestProposeSwapFailsWhenTargetSlotNotSwappable(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	u1, u2 := uuid.New(), uuid.New()
	e1 := seedSlot(store, u1, "mine", at(10), at(11), eventEntity.StatusSwappable)
	e2 := seedSlot(store, u2, "held", at(14), at(15), eventEntity.StatusSwapPending)

	_, err := svc.ProposeSwap(context.Background(), u1, e1, e2)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidState, apperrors.CodeOf(err))
	assert.Empty(t, store.swaps)
}

func TestProposeSwapLostRaceRollsBackEverything(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	u1, u2 := uuid.New(), uuid.New()
	e1 := seedSlot(store, u1, "mine", at(10), at(11), eventEntity.StatusSwappable)
	e2 := seedSlot(store, u2, "contested", at(14), at(15), eventEntity.StatusSwappable)

	// A concurrent proposal claims the contested slot after our
	// validation reads but before our conditional transitions run.
	store.beforeTransition = func() {
		ev := store.events[e2]
		ev.Status = eventEntity.StatusSwapPending
		store.events[e2] = ev
	}

	_, err := svc.ProposeSwap(context.Background(), u1, e1, e2)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrConflict, apperrors.CodeOf(err))

	// Our own slot is released and no request survives the rollback.
	assert.Equal(t, eventEntity.StatusSwappable, store.events[e1].Status)
	assert.Empty(t, store.swaps)
}

func proposedSwap(t *testing.T, store *fakeStore, svc *SwapService) (u1, u2, e1, e2 uuid.UUID, request *entity.SwapRequest) {
	t.Helper()
	u1, u2 = uuid.New(), uuid.New()
	e1 = seedSlot(store, u1, "morning shift", at(10), at(11), eventEntity.StatusSwappable)
	e2 = seedSlot(store, u2, "afternoon shift", at(14), at(15), eventEntity.StatusSwappable)

	request, err := svc.ProposeSwap(context.Background(), u1, e1, e2)
	require.NoError(t, err)
	return u1, u2, e1, e2, request
}

func TestRespondToSwapAcceptExchangesTimeWindows(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	_, u2, e1, e2, request := proposedSwap(t, store, svc)

	answered, err := svc.RespondToSwap(context.Background(), request.ID, u2, true)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, answered.Status)
	assert.Equal(t, entity.StatusAccepted, store.swaps[request.ID].Status)

	first, second := store.events[e1], store.events[e2]
	assert.Equal(t, at(14), first.StartTime)
	assert.Equal(t, at(15), first.EndTime)
	assert.Equal(t, eventEntity.StatusBusy, first.Status)
	assert.Equal(t, at(10), second.StartTime)
	assert.Equal(t, at(11), second.EndTime)
	assert.Equal(t, eventEntity.StatusBusy, second.Status)
}

func TestRespondToSwapSecondAnswerFailsWithoutMutation(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	_, u2, e1, e2, request := proposedSwap(t, store, svc)

	_, err := svc.RespondToSwap(context.Background(), request.ID, u2, true)
	require.NoError(t, err)

	_, err = svc.RespondToSwap(context.Background(), request.ID, u2, false)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidState, apperrors.CodeOf(err))

	// Accepted outcome stands untouched.
	assert.Equal(t, entity.StatusAccepted, store.swaps[request.ID].Status)
	assert.Equal(t, eventEntity.StatusBusy, store.events[e1].Status)
	assert.Equal(t, eventEntity.StatusBusy, store.events[e2].Status)
}

func TestRespondToSwapRejectReleasesSlotsWithoutTouchingTimes(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	_, u2, e1, e2, request := proposedSwap(t, store, svc)

	answered, err := svc.RespondToSwap(context.Background(), request.ID, u2, false)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, answered.Status)

	first, second := store.events[e1], store.events[e2]
	assert.Equal(t, eventEntity.StatusSwappable, first.Status)
	assert.Equal(t, eventEntity.StatusSwappable, second.Status)
	assert.Equal(t, at(10), first.StartTime)
	assert.Equal(t, at(11), first.EndTime)
	assert.Equal(t, at(14), second.StartTime)
	assert.Equal(t, at(15), second.EndTime)
}

func TestRespondToSwapRejectLeavesConsumedSlotAlone(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	_, u2, e1, e2, request := proposedSwap(t, store, svc)

	// Some other path already moved the offered slot out of the hold;
	// rejection must not resurrect it.
	ev := store.events[e1]
	ev.Status = eventEntity.StatusBusy
	store.events[e1] = ev

	_, err := svc.RespondToSwap(context.Background(), request.ID, u2, false)
	require.NoError(t, err)

	assert.Equal(t, eventEntity.StatusBusy, store.events[e1].Status)
	assert.Equal(t, eventEntity.StatusSwappable, store.events[e2].Status)
	assert.Equal(t, entity.StatusRejected, store.swaps[request.ID].Status)
}

func TestRespondToSwapRejectRacingAcceptKeepsAcceptedOutcome(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	_, u2, e1, e2, request := proposedSwap(t, store, svc)

	// An accept commits between the reject's preliminary read of the
	// request and the start of its own transaction. The reject must abort
	// rather than overwrite the accepted request or undo the exchange.
	store.beforeTx = func() {
		_, err := svc.RespondToSwap(context.Background(), request.ID, u2, true)
		require.NoError(t, err)
	}

	_, err := svc.RespondToSwap(context.Background(), request.ID, u2, false)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrConflict, apperrors.CodeOf(err))

	assert.Equal(t, entity.StatusAccepted, store.swaps[request.ID].Status)
	first, second := store.events[e1], store.events[e2]
	assert.Equal(t, eventEntity.StatusBusy, first.Status)
	assert.Equal(t, eventEntity.StatusBusy, second.Status)
	assert.Equal(t, at(14), first.StartTime)
	assert.Equal(t, at(15), first.EndTime)
	assert.Equal(t, at(10), second.StartTime)
	assert.Equal(t, at(11), second.EndTime)
}

func TestRespondToSwapOnlyReceiverMayAnswer(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	u1, _, _, _, request := proposedSwap(t, store, svc)

	_, err := svc.RespondToSwap(context.Background(), request.ID, u1, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(err))
	assert.Equal(t, entity.StatusPending, store.swaps[request.ID].Status)
}

func TestRespondToSwapMissingRequest(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)

	_, err := svc.RespondToSwap(context.Background(), uuid.New(), uuid.New(), true)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestRespondToSwapAcceptAbortsWhenSlotSlippedAway(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	_, u2, e1, _, request := proposedSwap(t, store, svc)

	// The offered slot was mutated by an interleaved operation since the
	// proposal; the accept path must notice and commit nothing.
	ev := store.events[e1]
	ev.Status = eventEntity.StatusSwappable
	store.events[e1] = ev

	_, err := svc.RespondToSwap(context.Background(), request.ID, u2, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidState, apperrors.CodeOf(err))

	assert.Equal(t, entity.StatusPending, store.swaps[request.ID].Status)
	assert.Equal(t, at(10), store.events[e1].StartTime)
	assert.Equal(t, at(11), store.events[e1].EndTime)
}

func TestChooseSlotsReturnsCallersSwappableSlots(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	u1, u2 := uuid.New(), uuid.New()
	mine := seedSlot(store, u1, "mine open", at(10), at(11), eventEntity.StatusSwappable)
	seedSlot(store, u1, "mine busy", at(12), at(13), eventEntity.StatusBusy)
	theirs := seedSlot(store, u2, "theirs", at(14), at(15), eventEntity.StatusSwappable)

	slots, err := svc.ChooseSlots(context.Background(), u1, theirs)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, mine, slots[0].ID)
}

func TestChooseSlotsMissingTarget(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)

	_, err := svc.ChooseSlots(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}
