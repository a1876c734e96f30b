package domain

import "time"

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "Confirmed"
	StatusCancelled ReservationStatus = "Cancelled"
)

// Reservation occupies one room for the half-open date range
// [CheckIn, CheckOut). TotalCost is fixed at booking time and never
// recomputed, even if the room's price changes later.
type Reservation struct {
	ID         string            `json:"id"`
	CustomerID string            `json:"customer_id"`
	RoomID     string            `json:"room_id"`
	CheckIn    time.Time         `json:"check_in"`
	CheckOut   time.Time         `json:"check_out"`
	TotalCost  float64           `json:"total_cost"`
	Status     ReservationStatus `json:"status"`
}

// Nights is the billing unit: whole days between check-in and check-out.
// Both dates are UTC midnights, so the division is exact.
func (r Reservation) Nights() int {
	return NightsBetween(r.CheckIn, r.CheckOut)
}

func NightsBetween(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn) / (24 * time.Hour))
}

// Overlaps reports whether the half-open ranges [aIn, aOut) and [bIn, bOut)
// intersect. Back-to-back stays (aOut == bIn) do not overlap.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}
