package service

import (
	"context"
	"maps"
	"testing"
	"time"

	"slotswap/core/database"
	apperrors "slotswap/core/errors"
	"slotswap/modules/event/dto"
	"slotswap/modules/event/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	events map[uuid.UUID]entity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]entity.Event)}
}

func (f *fakeEventRepo) WithinTransaction(_ context.Context, fn func(q database.Queryer) error) error {
	snap := maps.Clone(f.events)
	if err := fn(nil); err != nil {
		f.events = snap
		return err
	}
	return nil
}

func (f *fakeEventRepo) Create(_ context.Context, event *entity.Event) (*entity.Event, error) {
	created := *event
	created.ID = uuid.New()
	f.events[created.ID] = created
	return &created, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	if ev, ok := f.events[id]; ok {
		copied := ev
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeEventRepo) GetByIDTx(ctx context.Context, _ database.Queryer, id uuid.UUID) (*entity.Event, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeEventRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]entity.Event, error) {
	var out []entity.Event
	for _, ev := range f.events {
		if ev.UserID == ownerID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListByOwnerAndStatus(_ context.Context, ownerID uuid.UUID, status entity.Status) ([]entity.Event, error) {
	var out []entity.Event
	for _, ev := range f.events {
		if ev.UserID == ownerID && ev.Status == status {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListSwappable(_ context.Context, excludingOwnerID uuid.UUID) ([]entity.SwappableSpot, error) {
	var out []entity.SwappableSpot
	for _, ev := range f.events {
		if ev.Status == entity.StatusSwappable && ev.UserID != excludingOwnerID {
			out = append(out, entity.SwappableSpot{
				ID:        ev.ID,
				Title:     ev.Title,
				StartTime: ev.StartTime,
				EndTime:   ev.EndTime,
				Status:    ev.Status,
				OwnerName: "someone",
			})
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ConditionalTransition(_ context.Context, _ database.Queryer, id uuid.UUID, expected, next entity.Status) (bool, error) {
	ev, ok := f.events[id]
	if !ok || ev.Status != expected {
		return false, nil
	}
	ev.Status = next
	f.events[id] = ev
	return true, nil
}

func (f *fakeEventRepo) SetSchedule(_ context.Context, _ database.Queryer, id uuid.UUID, start, end time.Time, status entity.Status) error {
	ev := f.events[id]
	ev.StartTime = start
	ev.EndTime = end
	ev.Status = status
	f.events[id] = ev
	return nil
}

func newEventService(repo *fakeEventRepo) *EventService {
	return NewEventService(repo, repo)
}

func seed(repo *fakeEventRepo, owner uuid.UUID, status entity.Status) uuid.UUID {
	id := uuid.New()
	repo.events[id] = entity.Event{
		ID:        id,
		Title:     "shift",
		StartTime: time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, time.March, 2, 11, 0, 0, 0, time.UTC),
		Status:    status,
		UserID:    owner,
	}
	return id
}

func TestCreateEventStartsBusy(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventService(repo)
	owner := uuid.New()

	created, err := svc.CreateEvent(context.Background(), owner, &dto.CreateEventRequest{
		Title:     "standup",
		StartTime: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusBusy, created.Status)
	assert.Equal(t, owner, created.UserID)
}

func TestCreateEventRejectsInvertedWindow(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventService(repo)

	_, err := svc.CreateEvent(context.Background(), uuid.New(), &dto.CreateEventRequest{
		Title:     "backwards",
		StartTime: time.Date(2026, time.March, 2, 11, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidInput, apperrors.CodeOf(err))
}

func TestMarkSwappableTransitionsBusySlot(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventService(repo)
	owner := uuid.New()
	id := seed(repo, owner, entity.StatusBusy)

	updated, err := svc.MarkSwappable(context.Background(), id, owner)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSwappable, updated.Status)
	assert.Equal(t, entity.StatusSwappable, repo.events[id].Status)
}

func TestMarkSwappableMissingSlot(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventService(repo)

	_, err := svc.MarkSwappable(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestMarkSwappableOnlyOwnerMayOpenSlot(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventService(repo)
	owner := uuid.New()
	id := seed(repo, owner, entity.StatusBusy)

	_, err := svc.MarkSwappable(context.Background(), id, uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(err))
	assert.Equal(t, entity.StatusBusy, repo.events[id].Status)
}

func TestMarkSwappableRequiresBusyStatus(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventService(repo)
	owner := uuid.New()
	id := seed(repo, owner, entity.StatusSwapPending)

	_, err := svc.MarkSwappable(context.Background(), id, owner)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidState, apperrors.CodeOf(err))
	assert.Equal(t, entity.StatusSwapPending, repo.events[id].Status)
}

func TestListSwappableSpotsExcludesCaller(t *testing.T) {
	repo := newFakeEventRepo()
	svc := newEventService(repo)
	u1, u2 := uuid.New(), uuid.New()
	seed(repo, u1, entity.StatusSwappable)
	other := seed(repo, u2, entity.StatusSwappable)

	spots, err := svc.ListSwappableSpots(context.Background(), u1)
	require.NoError(t, err)
	require.Len(t, spots, 1)
	assert.Equal(t, other, spots[0].ID)
}
