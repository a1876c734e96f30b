package domain

import "context"

// Store persists whole-collection snapshots for the three collections.
// Save overwrites prior content; Load yields an empty collection when no
// snapshot exists yet.
type Store interface {
	SaveRooms(ctx context.Context, rooms []Room) error
	SaveCustomers(ctx context.Context, customers []Customer) error
	SaveReservations(ctx context.Context, reservations []Reservation) error

	LoadRooms(ctx context.Context) ([]Room, error)
	LoadCustomers(ctx context.Context) ([]Customer, error)
	LoadReservations(ctx context.Context) ([]Reservation, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// IDGenerator issues entity identifiers. Observe feeds restored IDs back in
// so sequence-based generators resume past them instead of reissuing.
type IDGenerator interface {
	Next() string
	Observe(id string)
}

// BookingStats aggregates over all reservations ever made.
type BookingStats struct {
	TotalReservations int            `json:"total_reservations"` // Confirmed only
	TotalRevenue      float64        `json:"total_revenue"`
	CancelledCount    int            `json:"cancelled_count"`
	RoomTypeBookings  map[string]int `json:"room_type_bookings"`
}
