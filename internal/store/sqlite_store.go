package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/EpicMandM/reservation-system/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dbPath, err := resolveDBPath(path)
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, errors.Join(err, cerr)
		}
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func resolveDBPath(path string) (string, error) {
	abs := filepath.Clean(path)
	if strings.HasSuffix(abs, ".db") {
		if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
			return "", err
		}
		return abs, nil
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", err
	}
	return filepath.Join(abs, "reservations.db"), nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reservations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			room_id INTEGER NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			status TEXT NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_reservations_room_status ON reservations(room_id, status);",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectColumns = `SELECT id, user_id, room_id, start_date, end_date, status FROM reservations`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (models.Reservation, error) {
	var (
		r          models.Reservation
		start, end string
		status     string
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.RoomID, &start, &end, &status); err != nil {
		return models.Reservation{}, err
	}
	var err error
	if r.StartDate, err = models.ParseDate(start); err != nil {
		return models.Reservation{}, fmt.Errorf("reservation %d: %w", r.ID, err)
	}
	if r.EndDate, err = models.ParseDate(end); err != nil {
		return models.Reservation{}, fmt.Errorf("reservation %d: %w", r.ID, err)
	}
	r.Status = models.ReservationStatus(status)
	return r, nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, id int64) (models.Reservation, error) {
	r, err := scanReservation(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reservation{}, ErrNotFound
	}
	if err != nil {
		return models.Reservation{}, err
	}
	return r, nil
}

func (s *SQLiteStore) FindAll(ctx context.Context) ([]models.Reservation, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	reservations := []models.Reservation{}
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

func (s *SQLiteStore) Save(ctx context.Context, r models.Reservation) (models.Reservation, error) {
	start := r.StartDate.String()
	end := r.EndDate.String()

	if r.ID == 0 {
		res, err := s.db.ExecContext(ctx, `INSERT INTO reservations (user_id, room_id, start_date, end_date, status)
			VALUES (?, ?, ?, ?, ?)`,
			r.UserID, r.RoomID, start, end, string(r.Status))
		if err != nil {
			return models.Reservation{}, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return models.Reservation{}, err
		}
		r.ID = id
		return r, nil
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO reservations (id, user_id, room_id, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id, room_id=excluded.room_id,
			start_date=excluded.start_date, end_date=excluded.end_date, status=excluded.status`,
		r.ID, r.UserID, r.RoomID, start, end, string(r.Status))
	if err != nil {
		return models.Reservation{}, err
	}
	return r, nil
}

func (s *SQLiteStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM reservations WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

func (s *SQLiteStore) DeleteByID(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) SetStatus(ctx context.Context, id int64, status models.ReservationStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
