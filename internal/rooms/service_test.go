package rooms

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harborstay/harborstay/internal/shared"
)

type stubRepo struct {
	rooms map[string]Room
}

func newStubRepo() *stubRepo {
	return &stubRepo{rooms: map[string]Room{}}
}

func (r *stubRepo) List(_ context.Context, filter ListFilter) ([]Room, error) {
	var out []Room
	for _, room := range r.rooms {
		if filter.PropertyID != "" && room.PropertyID != filter.PropertyID {
			continue
		}
		if filter.OwnerID != "" && room.OwnerID != filter.OwnerID {
			continue
		}
		if filter.ActiveOnly && !room.IsActive {
			continue
		}
		out = append(out, room)
	}
	return out, nil
}

func (r *stubRepo) ListByOwner(ctx context.Context, ownerID string) ([]Room, error) {
	return r.List(ctx, ListFilter{OwnerID: ownerID})
}

func (r *stubRepo) Get(_ context.Context, id string) (Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return Room{}, fmt.Errorf("rooms: room %q: %w", id, shared.ErrNotFound)
	}
	return room, nil
}

func (r *stubRepo) Insert(_ context.Context, room Room) error {
	for _, existing := range r.rooms {
		if existing.PropertyID == room.PropertyID && strings.EqualFold(existing.Number, room.Number) {
			return fmt.Errorf("rooms: number %q already exists in property: %w", room.Number, shared.ErrDuplicate)
		}
	}
	r.rooms[room.ID] = room
	return nil
}

func (r *stubRepo) Update(_ context.Context, room Room) error {
	if _, ok := r.rooms[room.ID]; !ok {
		return fmt.Errorf("rooms: room %q: %w", room.ID, shared.ErrNotFound)
	}
	r.rooms[room.ID] = room
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rooms[id]; !ok {
		return fmt.Errorf("rooms: room %q: %w", id, shared.ErrNotFound)
	}
	delete(r.rooms, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	return NewService(repo, nil, slog.Default()), repo
}

func roomInput() CreateInput {
	return CreateInput{
		PropertyID:   "prop-1",
		RoomTypeID:   "type-1",
		Number:       "101",
		Floor:        1,
		BaseRate:     120,
		MaxOccupancy: 2,
	}
}

func TestCreateRoomStartsCleanAndActive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, roomInput())
	require.NoError(t, err)
	require.Equal(t, HousekeepingClean, room.Housekeeping)
	require.True(t, room.IsActive)
	require.Equal(t, "101", room.Number)
}

func TestCreateRoomValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := roomInput()
	input.Number = "  "
	_, err := svc.Create(ctx, input)
	require.ErrorIs(t, err, shared.ErrValidation)

	input = roomInput()
	input.RoomTypeID = ""
	_, err = svc.Create(ctx, input)
	require.ErrorIs(t, err, shared.ErrValidation)

	input = roomInput()
	input.MaxOccupancy = 0
	_, err = svc.Create(ctx, input)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRoomNumberUniquePerProperty(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, roomInput())
	require.NoError(t, err)

	// Same number in the same property collides, case-insensitively.
	input := roomInput()
	input.Number = "101"
	_, err = svc.Create(ctx, input)
	require.ErrorIs(t, err, shared.ErrDuplicate)

	// The same number in another property is fine.
	input = roomInput()
	input.PropertyID = "prop-2"
	_, err = svc.Create(ctx, input)
	require.NoError(t, err)
}

func TestUpdateRoomHousekeeping(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, roomInput())
	require.NoError(t, err)

	dirty := HousekeepingDirty
	updated, err := svc.Update(ctx, room.ID, UpdateInput{Housekeeping: &dirty})
	require.NoError(t, err)
	require.Equal(t, HousekeepingDirty, updated.Housekeeping)

	bogus := HousekeepingState("sparkling")
	_, err = svc.Update(ctx, room.ID, UpdateInput{Housekeeping: &bogus})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteRoom(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, roomInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, room.ID))
	require.ErrorIs(t, svc.Delete(ctx, room.ID), shared.ErrNotFound)
}
