package store

import (
	"database/sql"
	"time"
)

// IngestRun represents a single forecast fetch for auditing.
type IngestRun struct {
	ID                int64          `json:"id"`
	StartedAt         time.Time      `json:"started_at"`
	FinishedAt        sql.NullTime   `json:"finished_at"`
	Source            string         `json:"source"`   // "owm"
	Endpoint          string         `json:"endpoint"` // "forecast/daily"
	LocationID        sql.NullString `json:"location_id"`
	HTTPStatus        sql.NullInt64  `json:"http_status"`
	ResponseSizeBytes sql.NullInt64  `json:"response_size_bytes"`
	RecordsParsed     sql.NullInt64  `json:"records_parsed"`
	Success           bool           `json:"success"`
	ErrorMessage      sql.NullString `json:"error_message"`
}

// StartIngestRun creates a new ingest run record and returns it.
func (s *Store) StartIngestRun(source, endpoint string, locationID *string) (*IngestRun, error) {
	run := &IngestRun{
		StartedAt: time.Now().UTC(),
		Source:    source,
		Endpoint:  endpoint,
	}
	if locationID != nil {
		run.LocationID = sql.NullString{String: *locationID, Valid: true}
	}

	result, err := s.db.Exec(`
		INSERT INTO ingest_runs (started_at, source, endpoint, location_id, success)
		VALUES (?, ?, ?, ?, FALSE)
	`, run.StartedAt, run.Source, run.Endpoint, run.LocationID)
	if err != nil {
		return nil, err
	}

	run.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return run, nil
}

// CompleteIngestRun updates the ingest run with results.
func (s *Store) CompleteIngestRun(run *IngestRun) error {
	if run == nil {
		return nil
	}

	run.FinishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}

	_, err := s.db.Exec(`
		UPDATE ingest_runs SET
			finished_at = ?,
			http_status = ?,
			response_size_bytes = ?,
			records_parsed = ?,
			success = ?,
			error_message = ?
		WHERE id = ?
	`, run.FinishedAt, run.HTTPStatus, run.ResponseSizeBytes, run.RecordsParsed,
		run.Success, run.ErrorMessage, run.ID)
	return err
}

// GetRecentIngestRuns returns the latest ingest runs, newest first.
func (s *Store) GetRecentIngestRuns(limit int) ([]IngestRun, error) {
	return s.queryIngestRuns(`
		SELECT id, started_at, finished_at, source, endpoint, location_id,
			   http_status, response_size_bytes, records_parsed, success, error_message
		FROM ingest_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
}

// GetRecentIngestErrors returns recent failed ingest runs.
func (s *Store) GetRecentIngestErrors(limit int) ([]IngestRun, error) {
	return s.queryIngestRuns(`
		SELECT id, started_at, finished_at, source, endpoint, location_id,
			   http_status, response_size_bytes, records_parsed, success, error_message
		FROM ingest_runs
		WHERE success = FALSE
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
}

func (s *Store) queryIngestRuns(query string, limit int) ([]IngestRun, error) {
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []IngestRun{}
	for rows.Next() {
		var r IngestRun
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Source, &r.Endpoint,
			&r.LocationID, &r.HTTPStatus, &r.ResponseSizeBytes, &r.RecordsParsed,
			&r.Success, &r.ErrorMessage); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
