package app

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_reservation/internal/domain"
)

// Generators supplies one identifier generator per collection so engine
// instances (and tests) never share counter state.
type Generators struct {
	Rooms        domain.IDGenerator
	Customers    domain.IDGenerator
	Reservations domain.IDGenerator
}

// Engine owns the three collections and every invariant-preserving mutation.
// One mutex serializes operations; the HTTP layer is concurrent but the
// engine keeps single-writer semantics.
type Engine struct {
	mu       sync.Mutex
	store    domain.Store
	cache    domain.Cache
	cacheTTL time.Duration
	gen      Generators

	rooms        []domain.Room
	customers    []domain.Customer
	reservations []domain.Reservation

	// version tags availability cache keys; bumping it on any mutation
	// orphans stale entries, which then age out via TTL.
	version uint64
}

func NewEngine(store domain.Store, cache domain.Cache, cacheTTL time.Duration, gen Generators) *Engine {
	return &Engine{store: store, cache: cache, cacheTTL: cacheTTL, gen: gen}
}

// Restore loads all three collections from the store and re-seeds the ID
// generators from the restored identifiers. An unreadable snapshot degrades
// to an empty collection; nothing is fatal here.
func (e *Engine) Restore(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rooms, err := e.store.LoadRooms(ctx); err != nil {
		log.Warn().Err(err).Msg("load rooms failed, starting empty")
	} else {
		e.rooms = rooms
	}
	if customers, err := e.store.LoadCustomers(ctx); err != nil {
		log.Warn().Err(err).Msg("load customers failed, starting empty")
	} else {
		e.customers = customers
	}
	if reservations, err := e.store.LoadReservations(ctx); err != nil {
		log.Warn().Err(err).Msg("load reservations failed, starting empty")
	} else {
		e.reservations = reservations
	}

	for _, r := range e.rooms {
		e.gen.Rooms.Observe(r.ID)
	}
	for _, c := range e.customers {
		e.gen.Customers.Observe(c.ID)
	}
	for _, r := range e.reservations {
		e.gen.Reservations.Observe(r.ID)
	}

	log.Info().
		Int("rooms", len(e.rooms)).
		Int("customers", len(e.customers)).
		Int("reservations", len(e.reservations)).
		Msg("state restored")
}

// AddRoom creates a room with a fresh identifier.
func (e *Engine) AddRoom(ctx context.Context, roomType string, pricePerNight float64, capacity int) (domain.Room, error) {
	if pricePerNight < 0 {
		return domain.Room{}, fmt.Errorf("%w: price per night must not be negative", domain.ErrInvalidInput)
	}
	if capacity < 1 {
		return domain.Room{}, fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	room := domain.Room{
		ID:            e.gen.Rooms.Next(),
		Type:          roomType,
		PricePerNight: pricePerNight,
		Capacity:      capacity,
	}
	e.rooms = append(e.rooms, room)
	e.persist("rooms", func() error { return e.store.SaveRooms(ctx, e.rooms) })
	e.invalidate(ctx)
	return room, nil
}

// RemoveRoom deletes a room that is not under any Confirmed reservation.
func (e *Engine) RemoveRoom(ctx context.Context, roomID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i, r := range e.rooms {
		if r.ID == roomID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: room %s", domain.ErrNotFound, roomID)
	}
	if e.roomOccupied(roomID) {
		return fmt.Errorf("%w: room %s has a confirmed reservation", domain.ErrConflict, roomID)
	}

	e.rooms = append(e.rooms[:idx], e.rooms[idx+1:]...)
	e.persist("rooms", func() error { return e.store.SaveRooms(ctx, e.rooms) })
	e.invalidate(ctx)
	return nil
}

// AddCustomer registers a customer. Registration is idempotent on email:
// an existing record is returned unchanged.
func (e *Engine) AddCustomer(ctx context.Context, name, email, phone, address string) (domain.Customer, error) {
	if email == "" {
		return domain.Customer{}, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, c := range e.customers {
		if c.Email == email {
			return c, nil
		}
	}

	customer := domain.Customer{
		ID:      e.gen.Customers.Next(),
		Name:    name,
		Email:   email,
		Phone:   phone,
		Address: address,
	}
	e.customers = append(e.customers, customer)
	e.persist("customers", func() error { return e.store.SaveCustomers(ctx, e.customers) })
	return customer, nil
}

// BookReservation books a room for [checkIn, checkOut). Preconditions are
// checked in order: date range, customer, room, then the overlap scan
// against Confirmed reservations, which is the authoritative availability
// check.
func (e *Engine) BookReservation(ctx context.Context, customerID, roomID string, checkIn, checkOut time.Time) (domain.Reservation, error) {
	if !checkOut.After(checkIn) {
		return domain.Reservation{}, fmt.Errorf("%w: check-out must be after check-in", domain.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.customerByID(customerID); !ok {
		return domain.Reservation{}, fmt.Errorf("%w: customer %s", domain.ErrNotFound, customerID)
	}
	room, ok := e.roomByID(roomID)
	if !ok {
		return domain.Reservation{}, fmt.Errorf("%w: room %s", domain.ErrNotFound, roomID)
	}
	if !e.roomFreeForRange(roomID, checkIn, checkOut) {
		return domain.Reservation{}, fmt.Errorf("%w: room %s is booked for an overlapping range", domain.ErrConflict, roomID)
	}

	res := domain.Reservation{
		ID:         e.gen.Reservations.Next(),
		CustomerID: customerID,
		RoomID:     roomID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalCost:  float64(domain.NightsBetween(checkIn, checkOut)) * room.PricePerNight,
		Status:     domain.StatusConfirmed,
	}
	e.reservations = append(e.reservations, res)

	// Full resync, as booking touches derived room state too.
	e.persist("rooms", func() error { return e.store.SaveRooms(ctx, e.rooms) })
	e.persist("customers", func() error { return e.store.SaveCustomers(ctx, e.customers) })
	e.persist("reservations", func() error { return e.store.SaveReservations(ctx, e.reservations) })
	e.invalidate(ctx)
	return res, nil
}

// CancelReservation transitions Confirmed -> Cancelled. The transition is
// terminal; cancelling twice reports a conflict.
func (e *Engine) CancelReservation(ctx context.Context, reservationID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i, r := range e.reservations {
		if r.ID == reservationID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: reservation %s", domain.ErrNotFound, reservationID)
	}
	if e.reservations[idx].Status != domain.StatusConfirmed {
		return fmt.Errorf("%w: reservation %s is already cancelled", domain.ErrConflict, reservationID)
	}

	e.reservations[idx].Status = domain.StatusCancelled
	e.persist("reservations", func() error { return e.store.SaveReservations(ctx, e.reservations) })
	e.invalidate(ctx)
	return nil
}

// SeedSampleRooms creates the default starter inventory. Callers invoke it
// only when the restored inventory is empty.
func (e *Engine) SeedSampleRooms(ctx context.Context) error {
	seed := []struct {
		roomType string
		price    float64
		capacity int
	}{
		{"Single", 1500, 1},
		{"Double", 2500, 2},
		{"Suite", 4000, 3},
		{"Deluxe", 5500, 4},
		{"Single", 1500, 1},
		{"Double", 2500, 2},
	}
	for _, s := range seed {
		if _, err := e.AddRoom(ctx, s.roomType, s.price, s.capacity); err != nil {
			return err
		}
	}
	return nil
}

// ---- internals (callers hold e.mu) ----

func (e *Engine) roomByID(id string) (domain.Room, bool) {
	for _, r := range e.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Room{}, false
}

func (e *Engine) customerByID(id string) (domain.Customer, bool) {
	for _, c := range e.customers {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// roomOccupied reports whether any Confirmed reservation references the room.
func (e *Engine) roomOccupied(roomID string) bool {
	for _, r := range e.reservations {
		if r.RoomID == roomID && r.Status == domain.StatusConfirmed {
			return true
		}
	}
	return false
}

func (e *Engine) roomFreeForRange(roomID string, checkIn, checkOut time.Time) bool {
	for _, r := range e.reservations {
		if r.RoomID != roomID || r.Status != domain.StatusConfirmed {
			continue
		}
		if domain.Overlaps(checkIn, checkOut, r.CheckIn, r.CheckOut) {
			return false
		}
	}
	return true
}

// persist saves one collection, logging and swallowing failures: in-memory
// state runs ahead of disk rather than aborting the operation.
func (e *Engine) persist(what string, save func() error) {
	if err := save(); err != nil {
		log.Warn().Err(err).Str("collection", what).Msg("persist failed, keeping in-memory state")
	}
}

// invalidate drops the stats entry and orphans availability entries by
// bumping the key version.
func (e *Engine) invalidate(ctx context.Context) {
	e.version++
	if e.cache == nil {
		return
	}
	_ = e.cache.Del(ctx, statsKey)
}

func (e *Engine) availKey(checkIn, checkOut time.Time) string {
	return "avail:" + strconv.FormatUint(e.version, 10) + ":" +
		checkIn.Format("2006-01-02") + ":" + checkOut.Format("2006-01-02")
}

const statsKey = "stats"
