package flatfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hotel_reservation/internal/adapters/observability"
	"hotel_reservation/internal/domain"
)

const (
	roomsFile        = "rooms.json"
	customersFile    = "customers.json"
	reservationsFile = "reservations.json"
)

// Store persists each collection as one JSON file under dir. Saves replace
// the whole file atomically (tmp + rename); a missing file loads as an
// empty collection.
type Store struct{ dir string }

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) SaveRooms(ctx context.Context, rooms []domain.Room) error {
	return save(s, "save_rooms", roomsFile, rooms)
}

func (s *Store) SaveCustomers(ctx context.Context, customers []domain.Customer) error {
	return save(s, "save_customers", customersFile, customers)
}

func (s *Store) SaveReservations(ctx context.Context, reservations []domain.Reservation) error {
	return save(s, "save_reservations", reservationsFile, reservations)
}

func (s *Store) LoadRooms(ctx context.Context) ([]domain.Room, error) {
	return load[domain.Room](s, "load_rooms", roomsFile)
}

func (s *Store) LoadCustomers(ctx context.Context) ([]domain.Customer, error) {
	return load[domain.Customer](s, "load_customers", customersFile)
}

func (s *Store) LoadReservations(ctx context.Context) ([]domain.Reservation, error) {
	return load[domain.Reservation](s, "load_reservations", reservationsFile)
}

func save[T any](s *Store, op, name string, items []T) (err error) {
	start := time.Now()
	defer func() { observability.ObserveStore("flatfile", op, err, time.Since(start)) }()

	if items == nil {
		items = []T{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	// Write to a temp file in the same directory, then rename over the
	// target so readers never see a half-written snapshot.
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", name, err)
	}
	if _, err = tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func load[T any](s *Store, op, name string) (items []T, err error) {
	start := time.Now()
	defer func() { observability.ObserveStore("flatfile", op, err, time.Since(start)) }()

	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if err = json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return items, nil
}
