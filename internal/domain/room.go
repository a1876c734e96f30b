package domain

// Room is a bookable unit of inventory. Availability is not stored on the
// room; it is derived from the Confirmed reservations that reference it.
type Room struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"` // free-text category, e.g. "Single", "Suite"
	PricePerNight float64 `json:"price_per_night"`
	Capacity      int     `json:"capacity"`
}
