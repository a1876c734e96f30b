//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_reservation/internal/domain"
	mysqlstore "hotel_reservation/internal/storage/mysql"
)

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestStore_MySQL_SnapshotRoundTrip(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotel",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "hotel")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	store := mysqlstore.New(db)
	ctx := context.Background()

	rooms := []domain.Room{
		{ID: "ROOM1", Type: "Single", PricePerNight: 1500, Capacity: 1},
		{ID: "ROOM2", Type: "Suite", PricePerNight: 4000, Capacity: 3},
	}
	if err := store.SaveRooms(ctx, rooms); err != nil {
		t.Fatalf("SaveRooms: %v", err)
	}

	customers := []domain.Customer{
		{ID: "CUST1", Name: "Ana", Email: "ana@example.com", Phone: "123", Address: "Main St"},
	}
	if err := store.SaveCustomers(ctx, customers); err != nil {
		t.Fatalf("SaveCustomers: %v", err)
	}

	reservations := []domain.Reservation{{
		ID:         "RES1",
		CustomerID: "CUST1",
		RoomID:     "ROOM1",
		CheckIn:    date("2024-01-01"),
		CheckOut:   date("2024-01-03"),
		TotalCost:  3000,
		Status:     domain.StatusConfirmed,
	}}
	if err := store.SaveReservations(ctx, reservations); err != nil {
		t.Fatalf("SaveReservations: %v", err)
	}

	gotRooms, err := store.LoadRooms(ctx)
	if err != nil {
		t.Fatalf("LoadRooms: %v", err)
	}
	if len(gotRooms) != 2 || gotRooms[0].ID != "ROOM1" || gotRooms[1].PricePerNight != 4000 {
		t.Fatalf("unexpected rooms: %+v", gotRooms)
	}

	gotRes, err := store.LoadReservations(ctx)
	if err != nil {
		t.Fatalf("LoadReservations: %v", err)
	}
	if len(gotRes) != 1 || gotRes[0].TotalCost != 3000 || gotRes[0].Status != domain.StatusConfirmed {
		t.Fatalf("unexpected reservations: %+v", gotRes)
	}
	if !gotRes[0].CheckIn.Equal(date("2024-01-01")) || !gotRes[0].CheckOut.Equal(date("2024-01-03")) {
		t.Fatalf("dates did not survive the round trip: %+v", gotRes[0])
	}

	// A smaller snapshot prunes rows that fell out of it.
	if err := store.SaveRooms(ctx, rooms[:1]); err != nil {
		t.Fatalf("SaveRooms shrink: %v", err)
	}
	gotRooms, err = store.LoadRooms(ctx)
	if err != nil {
		t.Fatalf("LoadRooms: %v", err)
	}
	if len(gotRooms) != 1 || gotRooms[0].ID != "ROOM1" {
		t.Fatalf("prune failed: %+v", gotRooms)
	}

	// And an empty snapshot clears the table.
	if err := store.SaveReservations(ctx, nil); err != nil {
		t.Fatalf("SaveReservations empty: %v", err)
	}
	gotRes, err = store.LoadReservations(ctx)
	if err != nil {
		t.Fatalf("LoadReservations: %v", err)
	}
	if len(gotRes) != 0 {
		t.Fatalf("expected cleared table, got %+v", gotRes)
	}
}
