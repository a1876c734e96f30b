package app

import (
	"context"
	"fmt"
	"time"

	"hotel_reservation/internal/domain"
)

// Rooms returns a copy of the full inventory.
func (e *Engine) Rooms() []domain.Room {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Room(nil), e.rooms...)
}

// AvailableRooms returns rooms with no Confirmed reservation at all.
func (e *Engine) AvailableRooms() []domain.Room {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []domain.Room
	for _, r := range e.rooms {
		if !e.roomOccupied(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// AvailableRoomsForDates returns rooms with no Confirmed reservation
// overlapping [checkIn, checkOut).
func (e *Engine) AvailableRoomsForDates(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error) {
	if !checkOut.After(checkIn) {
		return nil, fmt.Errorf("%w: check-out must be after check-in", domain.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	key := e.availKey(checkIn, checkOut)
	if e.cache != nil {
		var cached []domain.Room
		if ok, _ := e.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	out := []domain.Room{}
	for _, r := range e.rooms {
		if e.roomFreeForRange(r.ID, checkIn, checkOut) {
			out = append(out, r)
		}
	}
	if e.cache != nil {
		_ = e.cache.Set(ctx, key, out, int(e.cacheTTL.Seconds()))
	}
	return out, nil
}

// BookingStats aggregates over all reservations: Confirmed count and
// revenue, Cancelled count, and confirmed bookings per room type.
func (e *Engine) BookingStats(ctx context.Context) (domain.BookingStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cache != nil {
		var cached domain.BookingStats
		if ok, _ := e.cache.Get(ctx, statsKey, &cached); ok {
			return cached, nil
		}
	}

	stats := domain.BookingStats{RoomTypeBookings: map[string]int{}}
	for _, r := range e.reservations {
		switch r.Status {
		case domain.StatusConfirmed:
			stats.TotalReservations++
			stats.TotalRevenue += r.TotalCost
			if room, ok := e.roomByID(r.RoomID); ok {
				stats.RoomTypeBookings[room.Type]++
			}
		case domain.StatusCancelled:
			stats.CancelledCount++
		}
	}
	if e.cache != nil {
		_ = e.cache.Set(ctx, statsKey, stats, int(e.cacheTTL.Seconds()))
	}
	return stats, nil
}

// ---- finders: linear scans, first match ----

func (e *Engine) RoomByID(id string) (domain.Room, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r, ok := e.roomByID(id); ok {
		return r, nil
	}
	return domain.Room{}, fmt.Errorf("%w: room %s", domain.ErrNotFound, id)
}

func (e *Engine) CustomerByID(id string) (domain.Customer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.customerByID(id); ok {
		return c, nil
	}
	return domain.Customer{}, fmt.Errorf("%w: customer %s", domain.ErrNotFound, id)
}

func (e *Engine) CustomerByEmail(email string) (domain.Customer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return domain.Customer{}, fmt.Errorf("%w: customer email %s", domain.ErrNotFound, email)
}

func (e *Engine) ReservationByID(id string) (domain.Reservation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.reservations {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Reservation{}, fmt.Errorf("%w: reservation %s", domain.ErrNotFound, id)
}

func (e *Engine) ReservationsByCustomer(customerID string) []domain.Reservation {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []domain.Reservation
	for _, r := range e.reservations {
		if r.CustomerID == customerID {
			out = append(out, r)
		}
	}
	return out
}
