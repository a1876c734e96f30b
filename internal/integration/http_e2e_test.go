//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpserver "hotel_reservation/internal/adapters/http_server"
	"hotel_reservation/internal/app"
	"hotel_reservation/internal/domain"
	"hotel_reservation/internal/idgen"
	"hotel_reservation/internal/storage/flatfile"
)

const adminToken = "e2e-token"

func newEngine(t *testing.T, dataDir string) *app.Engine {
	t.Helper()
	store, err := flatfile.New(dataDir)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return app.NewEngine(store, nil, time.Minute, app.Generators{
		Rooms:        idgen.NewSequence("ROOM"),
		Customers:    idgen.NewSequence("CUST"),
		Reservations: idgen.NewSequence("RES"),
	})
}

func startServer(t *testing.T, engine *app.Engine) *httptest.Server {
	t.Helper()
	srv := httpserver.New(1000)
	srv.MountHandlers(&httpserver.Handlers{E: engine, AdminToken: adminToken})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, body map[string]any, asAdmin bool) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if asAdmin {
		req.Header.Set("X-Admin-Token", adminToken)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

// The full lifecycle of the original system, over real HTTP and a real
// flat-file store, including a restart in the middle.
func TestHTTP_EndToEnd_BookingLifecycle(t *testing.T) {
	dataDir := t.TempDir()
	engine := newEngine(t, dataDir)
	ts := startServer(t, engine)

	var room domain.Room
	decode(t, post(t, ts.URL+"/v1/rooms",
		map[string]any{"type": "Double", "price_per_night": 1000.0, "capacity": 2}, true), &room)

	var cust domain.Customer
	decode(t, post(t, ts.URL+"/v1/customers",
		map[string]any{"name": "Ana", "email": "ana@example.com", "phone": "123", "address": "Main St"}, false), &cust)

	var first domain.Reservation
	resp := post(t, ts.URL+"/v1/reservations", map[string]any{
		"customer_id": cust.ID, "room_id": room.ID,
		"check_in": "2024-01-01", "check_out": "2024-01-03",
	}, false)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("book: want 201, got %d", resp.StatusCode)
	}
	decode(t, resp, &first)
	if first.TotalCost != 2000 {
		t.Fatalf("2 nights at 1000: want 2000, got %v", first.TotalCost)
	}

	// Room gone from availability for the booked range.
	availURL := fmt.Sprintf("%s/v1/rooms/available?check_in=2024-01-02&check_out=2024-01-04", ts.URL)
	var avail []domain.Room
	res, err := http.Get(availURL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	decode(t, res, &avail)
	if len(avail) != 0 {
		t.Fatalf("booked room still listed available: %+v", avail)
	}

	// Overlapping second booking is rejected.
	resp = post(t, ts.URL+"/v1/reservations", map[string]any{
		"customer_id": cust.ID, "room_id": room.ID,
		"check_in": "2024-01-02", "check_out": "2024-01-04",
	}, false)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("overlap: want 409, got %d", resp.StatusCode)
	}

	// Cancel the first; the same range books cleanly now.
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/v1/reservations/"+first.ID, nil)
	dresp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	dresp.Body.Close()
	if dresp.StatusCode != http.StatusNoContent {
		t.Fatalf("cancel: want 204, got %d", dresp.StatusCode)
	}

	var second domain.Reservation
	resp = post(t, ts.URL+"/v1/reservations", map[string]any{
		"customer_id": cust.ID, "room_id": room.ID,
		"check_in": "2024-01-02", "check_out": "2024-01-04",
	}, false)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("rebook after cancel: want 201, got %d", resp.StatusCode)
	}
	decode(t, resp, &second)

	// "Restart": a fresh engine on the same data dir sees everything and
	// keeps issuing non-colliding IDs.
	restarted := newEngine(t, dataDir)
	restarted.Restore(context.Background())

	if _, err := restarted.ReservationByID(second.ID); err != nil {
		t.Fatalf("reservation lost across restart: %v", err)
	}
	got, err := restarted.ReservationByID(first.ID)
	if err != nil {
		t.Fatalf("cancelled reservation lost across restart: %v", err)
	}
	if got.Status != domain.StatusCancelled {
		t.Fatalf("status lost across restart: %s", got.Status)
	}

	newRoom, err := restarted.AddRoom(context.Background(), "Suite", 4000, 3)
	if err != nil {
		t.Fatalf("AddRoom after restart: %v", err)
	}
	if newRoom.ID == room.ID {
		t.Fatalf("restarted engine reissued room id %s", newRoom.ID)
	}

	stats, err := restarted.BookingStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalReservations != 1 || stats.CancelledCount != 1 || stats.TotalRevenue != 2000 {
		t.Fatalf("unexpected stats after restart: %+v", stats)
	}
}
