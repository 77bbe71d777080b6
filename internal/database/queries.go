package database

import (
	"time"

	"github.com/pkg/errors"

	"rtt-prober/internal/models"
)

// SaveRecord stores one latency record. observed_at is stored in UTC so
// text comparison stays ordered across DST changes; the RTT is kept as
// printed.
func (db *DB) SaveRecord(rec models.Record) error {
	query := `
        INSERT INTO latency_records (observed_at, target, rtt_ms)
        VALUES (?, ?, ?)
    `
	_, err := db.Exec(query,
		rec.ObservedAt.UTC().Format(models.TimestampLayout),
		string(rec.Target),
		rec.RTT,
	)
	if err != nil {
		return errors.Wrapf(err, "save record for %s", rec.Target)
	}
	return nil
}

// Sink adapts the database to models.Sink
func (db *DB) Sink() models.Sink {
	return models.SinkFunc(db.SaveRecord)
}

// Recent returns up to limit of the newest records, oldest first, with
// timestamps in local time
func (db *DB) Recent(limit int) ([]models.Record, error) {
	query := `
        SELECT observed_at, target, rtt_ms FROM (
            SELECT id, observed_at, target, rtt_ms
            FROM latency_records
            ORDER BY id DESC
            LIMIT ?
        ) ORDER BY id
    `

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query recent records")
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var (
			observedAt, target, rtt string
		)
		if err := rows.Scan(&observedAt, &target, &rtt); err != nil {
			return nil, errors.Wrap(err, "scan record")
		}
		ts, err := time.ParseInLocation(models.TimestampLayout, observedAt, time.UTC)
		if err != nil {
			return nil, errors.Wrapf(err, "parse observed_at %q", observedAt)
		}
		records = append(records, models.Record{
			ObservedAt: ts.Local(),
			Target:     models.Target(target),
			RTT:        rtt,
		})
	}

	return records, rows.Err()
}
