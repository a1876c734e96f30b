package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"hotel_reservation/internal/app"
	"hotel_reservation/internal/domain"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

type Handlers struct {
	E          *app.Engine
	AdminToken string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/rooms", h.listRooms)
	s.mux.Get("/v1/rooms/available", h.availableRooms)

	s.mux.Post("/v1/customers", h.createCustomer)
	s.mux.Get("/v1/customers/{id}", h.getCustomer)
	s.mux.Get("/v1/customers/{id}/reservations", h.customerReservations)

	s.mux.Post("/v1/reservations", h.createReservation)
	s.mux.Get("/v1/reservations/{id}", h.getReservation)
	s.mux.Delete("/v1/reservations/{id}", h.cancelReservation)

	// administrative views sit behind the shared-token gate
	s.mux.Group(func(r chi.Router) {
		r.Use(adminOnly(h.AdminToken))
		r.Post("/v1/rooms", h.createRoom)
		r.Delete("/v1/rooms/{id}", h.removeRoom)
		r.Get("/v1/stats", h.stats)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeEngineError maps the engine's failure kinds onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decodeValid decodes a JSON body and runs struct validation on it.
func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeETagged(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- rooms ----

type createRoomRequest struct {
	Type          string  `json:"type" validate:"required"`
	PricePerNight float64 `json:"price_per_night" validate:"gte=0"`
	Capacity      int     `json:"capacity" validate:"gte=1"`
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := decodeValid(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	room, err := h.E.AddRoom(r.Context(), req.Type, req.PricePerNight, req.Capacity)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *Handlers) removeRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.E.RemoveRoom(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.E.Rooms())
}

func (h *Handlers) availableRooms(w http.ResponseWriter, r *http.Request) {
	checkIn, err := time.Parse(dateLayout, r.URL.Query().Get("check_in"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse(dateLayout, r.URL.Query().Get("check_out"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", "check_out must be YYYY-MM-DD")
		return
	}
	rooms, err := h.E.AvailableRoomsForDates(r.Context(), checkIn, checkOut)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeETagged(w, r, rooms)
}

// ---- customers ----

type createCustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (h *Handlers) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := decodeValid(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	customer, err := h.E.AddCustomer(r.Context(), req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	// Registration is idempotent on email; the canonical record comes
	// back either way.
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handlers) getCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.E.CustomerByID(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handlers) customerReservations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.E.CustomerByID(id); err != nil {
		writeEngineError(w, err)
		return
	}
	reservations := h.E.ReservationsByCustomer(id)
	if reservations == nil {
		reservations = []domain.Reservation{}
	}
	writeJSON(w, http.StatusOK, reservations)
}

// ---- reservations ----

type createReservationRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	RoomID     string `json:"room_id" validate:"required"`
	CheckIn    string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" validate:"required,datetime=2006-01-02"`
}

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := decodeValid(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	checkIn, _ := time.Parse(dateLayout, req.CheckIn)
	checkOut, _ := time.Parse(dateLayout, req.CheckOut)

	res, err := h.E.BookReservation(r.Context(), req.CustomerID, req.RoomID, checkIn, checkOut)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.E.ReservationByID(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) cancelReservation(w http.ResponseWriter, r *http.Request) {
	if err := h.E.CancelReservation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- stats ----

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.E.BookingStats(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeETagged(w, r, stats)
}
