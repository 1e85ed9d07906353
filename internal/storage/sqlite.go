package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"weather-records/internal/models"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("record not found")

// RecordStore is the persistence boundary for weather records.
type RecordStore interface {
	Create(ctx context.Context, rec *models.WeatherRecord) error
	List(ctx context.Context) ([]models.WeatherRecord, error)
	ListForExport(ctx context.Context) ([]models.WeatherRecord, error)
	GetByID(ctx context.Context, id int64) (*models.WeatherRecord, error)
	Update(ctx context.Context, rec *models.WeatherRecord) error
	Delete(ctx context.Context, id int64) error
	Close() error
}

// SQLiteRecordStore implements RecordStore on an embedded SQLite file.
type SQLiteRecordStore struct {
	db *sql.DB
}

// NewSQLiteRecordStore opens (or creates) the database file and ensures the
// schema exists. AUTOINCREMENT guarantees ids are never reused after deletes.
func NewSQLiteRecordStore(path string) (*SQLiteRecordStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS weather_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		location TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		avg_temperature_c REAL,
		description TEXT,
		latitude REAL,
		longitude REAL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteRecordStore{db: db}, nil
}

func (s *SQLiteRecordStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteRecordStore) Create(ctx context.Context, rec *models.WeatherRecord) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO weather_records
			(location, start_date, end_date, avg_temperature_c, description, latitude, longitude, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Location, rec.StartDate, rec.EndDate,
		rec.AvgTemperatureC, rec.Description, rec.Latitude, rec.Longitude,
		rec.CreatedAt.Format(time.RFC3339Nano), rec.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("error inserting record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading inserted id: %w", err)
	}
	rec.ID = id

	return nil
}

// List returns all records newest first.
func (s *SQLiteRecordStore) List(ctx context.Context) ([]models.WeatherRecord, error) {
	return s.list(ctx, "DESC")
}

// ListForExport returns all records oldest first; the export contract orders
// by ascending id, unlike the listing endpoint.
func (s *SQLiteRecordStore) ListForExport(ctx context.Context) ([]models.WeatherRecord, error) {
	return s.list(ctx, "ASC")
}

func (s *SQLiteRecordStore) list(ctx context.Context, order string) ([]models.WeatherRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, location, start_date, end_date, avg_temperature_c, description, latitude, longitude, created_at, updated_at
		FROM weather_records ORDER BY id `+order)
	if err != nil {
		return nil, fmt.Errorf("error querying records: %w", err)
	}
	defer rows.Close()

	out := make([]models.WeatherRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}

	return out, rows.Err()
}

func (s *SQLiteRecordStore) GetByID(ctx context.Context, id int64) (*models.WeatherRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, location, start_date, end_date, avg_temperature_c, description, latitude, longitude, created_at, updated_at
		FROM weather_records WHERE id = ?`, id)

	rec, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return rec, nil
}

// Update rewrites every mutable column and refreshes updated_at. created_at
// is deliberately left out of the statement.
func (s *SQLiteRecordStore) Update(ctx context.Context, rec *models.WeatherRecord) error {
	rec.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE weather_records
		SET location = ?, start_date = ?, end_date = ?, avg_temperature_c = ?, description = ?, latitude = ?, longitude = ?, updated_at = ?
		WHERE id = ?`,
		rec.Location, rec.StartDate, rec.EndDate,
		rec.AvgTemperatureC, rec.Description, rec.Latitude, rec.Longitude,
		rec.UpdatedAt.Format(time.RFC3339Nano), rec.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *SQLiteRecordStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM weather_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanRecord(scan func(dest ...any) error) (*models.WeatherRecord, error) {
	var rec models.WeatherRecord
	var avgTemp, lat, lon sql.NullFloat64
	var description sql.NullString
	var createdAt, updatedAt string

	err := scan(
		&rec.ID, &rec.Location, &rec.StartDate, &rec.EndDate,
		&avgTemp, &description, &lat, &lon,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning record: %w", err)
	}

	if avgTemp.Valid {
		rec.AvgTemperatureC = &avgTemp.Float64
	}
	if description.Valid {
		rec.Description = &description.String
	}
	if lat.Valid {
		rec.Latitude = &lat.Float64
	}
	if lon.Valid {
		rec.Longitude = &lon.Float64
	}

	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("error parsing created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("error parsing updated_at: %w", err)
	}

	return &rec, nil
}
