package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"hotel_reservation/internal/adapters/observability"
	"hotel_reservation/internal/domain"
)

// Store implements the snapshot contract on per-entity keyed rows: each
// save upserts the snapshot's rows and prunes the ones no longer present,
// in one transaction. Loads read the full table back.
type Store struct{ db *sql.DB }

func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) SaveRooms(ctx context.Context, rooms []domain.Room) (err error) {
	start := time.Now()
	defer func() { observability.ObserveStore("mysql", "save_rooms", err, time.Since(start)) }()

	ids := make([]string, 0, len(rooms))
	values := make([]string, 0, len(rooms))
	args := make([]any, 0, len(rooms)*4)
	for _, r := range rooms {
		ids = append(ids, r.ID)
		values = append(values, "(?,?,?,?)")
		args = append(args, r.ID, r.Type, r.PricePerNight, r.Capacity)
	}
	return s.replace(ctx, "rooms", ids, upsertRoomsPrefix+strings.Join(values, ",")+upsertRoomsOnDup, args)
}

func (s *Store) SaveCustomers(ctx context.Context, customers []domain.Customer) (err error) {
	start := time.Now()
	defer func() { observability.ObserveStore("mysql", "save_customers", err, time.Since(start)) }()

	ids := make([]string, 0, len(customers))
	values := make([]string, 0, len(customers))
	args := make([]any, 0, len(customers)*5)
	for _, c := range customers {
		ids = append(ids, c.ID)
		values = append(values, "(?,?,?,?,?)")
		args = append(args, c.ID, c.Name, c.Email, c.Phone, c.Address)
	}
	return s.replace(ctx, "customers", ids, upsertCustomersPrefix+strings.Join(values, ",")+upsertCustomersOnDup, args)
}

func (s *Store) SaveReservations(ctx context.Context, reservations []domain.Reservation) (err error) {
	start := time.Now()
	defer func() { observability.ObserveStore("mysql", "save_reservations", err, time.Since(start)) }()

	ids := make([]string, 0, len(reservations))
	values := make([]string, 0, len(reservations))
	args := make([]any, 0, len(reservations)*7)
	for _, r := range reservations {
		ids = append(ids, r.ID)
		values = append(values, "(?,?,?,?,?,?,?)")
		args = append(args, r.ID, r.CustomerID, r.RoomID, r.CheckIn, r.CheckOut, r.TotalCost, string(r.Status))
	}
	return s.replace(ctx, "reservations", ids, upsertReservationsPrefix+strings.Join(values, ",")+upsertReservationsOnDup, args)
}

// replace runs upsert + prune for one table. An empty snapshot clears it.
func (s *Store) replace(ctx context.Context, table string, ids []string, upsert string, args []any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if len(ids) == 0 {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, upsert, args...); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	pruneArgs := make([]any, len(ids))
	for i, id := range ids {
		pruneArgs[i] = id
	}
	prune := fmt.Sprintf("DELETE FROM %s WHERE id NOT IN (%s)", table, placeholders)
	if _, err := tx.ExecContext(ctx, prune, pruneArgs...); err != nil {
		return fmt.Errorf("prune %s: %w", table, err)
	}
	return tx.Commit()
}

func (s *Store) LoadRooms(ctx context.Context) (out []domain.Room, err error) {
	start := time.Now()
	defer func() { observability.ObserveStore("mysql", "load_rooms", err, time.Since(start)) }()

	rows, err := s.db.QueryContext(ctx, selectRoomsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r domain.Room
		if err := rows.Scan(&r.ID, &r.Type, &r.PricePerNight, &r.Capacity); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) LoadCustomers(ctx context.Context) (out []domain.Customer, err error) {
	start := time.Now()
	defer func() { observability.ObserveStore("mysql", "load_customers", err, time.Since(start)) }()

	rows, err := s.db.QueryContext(ctx, selectCustomersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) LoadReservations(ctx context.Context) (out []domain.Reservation, err error) {
	start := time.Now()
	defer func() { observability.ObserveStore("mysql", "load_reservations", err, time.Since(start)) }()

	rows, err := s.db.QueryContext(ctx, selectReservationsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r domain.Reservation
		var status string
		if err := rows.Scan(&r.ID, &r.CustomerID, &r.RoomID, &r.CheckIn, &r.CheckOut, &r.TotalCost, &status); err != nil {
			return nil, err
		}
		r.Status = domain.ReservationStatus(status)
		out = append(out, r)
	}
	return out, rows.Err()
}
