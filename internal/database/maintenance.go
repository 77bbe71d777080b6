package database

import (
	"time"

	"github.com/pkg/errors"

	"rtt-prober/internal/models"
)

// Prune deletes records observed before cutoff and returns how many were
// removed.
func (db *DB) Prune(cutoff time.Time) (int64, error) {
	res, err := db.Exec(`DELETE FROM latency_records WHERE observed_at < ?`,
		cutoff.UTC().Format(models.TimestampLayout))
	if err != nil {
		return 0, errors.Wrap(err, "prune records")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "prune records")
	}

	// Reclaim space only when something was actually removed
	if n > 0 {
		if _, err := db.Exec("VACUUM"); err != nil {
			return n, errors.Wrap(err, "vacuum")
		}
	}

	return n, nil
}
