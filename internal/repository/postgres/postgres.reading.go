// FilePath: internal/repository/postgres/postgres.reading.go
package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	nuts "github.com/vaudience/go-nuts"

	"github.com/agrimesh/irrihub/internal/database"
	"github.com/agrimesh/irrihub/internal/errors"
	"github.com/agrimesh/irrihub/internal/models"
	"github.com/agrimesh/irrihub/internal/repository"
)

type ReadingRepo struct {
	PostgresBaseRepo
}

func NewReadingRepository(db database.DB) (*ReadingRepo, error) {
	repo := &ReadingRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ReadingRepo) initializeSchema() error {
	// Every read query filters on device and time together, so the
	// composite index is the one that matters.
	queries := []string{
		`CREATE TABLE IF NOT EXISTS readings (
			id TEXT PRIMARY KEY,
			device_id TEXT NOT NULL,
			temperature DOUBLE PRECISION CHECK (temperature BETWEEN -50 AND 100),
			humidity DOUBLE PRECISION CHECK (humidity BETWEEN 0 AND 100),
			soil_moisture DOUBLE PRECISION CHECK (soil_moisture BETWEEN 0 AND 100),
			water_level DOUBLE PRECISION CHECK (water_level BETWEEN 0 AND 100),
			weather_condition TEXT,
			timestamp TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_readings_device_timestamp
		 ON readings(device_id, timestamp DESC)`,
	}

	for _, query := range queries {
		_, err := r.db.GetDB().Exec(query)
		if err != nil {
			return errors.NewDatabaseError("failed to initialize readings schema", err)
		}
	}
	return nil
}

func (r *ReadingRepo) Insert(ctx context.Context, reading *models.Reading) error {
	query := `
		INSERT INTO readings (
			id, device_id, temperature, humidity, soil_moisture,
			water_level, weather_condition, timestamp, created_at
		) VALUES (
			:id, :device_id, :temperature, :humidity, :soil_moisture,
			:water_level, :weather_condition, :timestamp, :created_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, reading)
	if err != nil {
		return errors.NewDatabaseError("failed to insert reading", err)
	}
	return nil
}

// List returns readings matching the filter, newest first.
func (r *ReadingRepo) List(ctx context.Context, filter repository.ReadingFilter) ([]models.Reading, error) {
	readings := []models.Reading{}
	if len(filter.DeviceIDs) == 0 {
		return readings, nil
	}

	query := `SELECT * FROM readings WHERE device_id IN (?)`
	args := []interface{}{filter.DeviceIDs}

	if filter.Start != nil {
		query += ` AND timestamp >= ?`
		args = append(args, *filter.Start)
	}
	if filter.End != nil {
		query += ` AND timestamp <= ?`
		args = append(args, *filter.End)
	}
	query += ` ORDER BY timestamp DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	query, expanded, err := sqlx.In(query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to build reading query", err)
	}
	query = r.db.GetDB().Rebind(query)

	if err := r.db.GetDB().SelectContext(ctx, &readings, query, expanded...); err != nil {
		return nil, errors.NewDatabaseError("failed to list readings", err)
	}
	return readings, nil
}

// DeleteOlderThan removes readings past the retention horizon and reports
// how many rows went away.
func (r *ReadingRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM readings WHERE timestamp < $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to delete old readings", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}

	nuts.L.Infof("[ReadingRepo] Deleted %d readings older than %v", rows, cutoff)
	return rows, nil
}
