package monitor

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"rtt-prober/internal/models"
)

// probeTarget runs all attempts for one target, pausing between attempts
// but not after the last one
func (s *Scheduler) probeTarget(ctx context.Context, target models.Target, sum *Summary) error {
	log := s.log.WithField("target", target)
	log.Debug("Probing target")

	for attempt := 1; attempt <= Repetitions; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		result := s.prober.Probe(ctx, target)
		sum.Probes++

		if result.Success {
			sum.Successes++
			if err := s.sink.Write(result.Record()); err != nil {
				return errors.Wrapf(err, "emit record for %s", target)
			}
		} else {
			sum.Failures++
			log.WithFields(logrus.Fields{
				"attempt": attempt,
				"reason":  result.Reason,
				"detail":  result.Detail,
			}).Debug("Probe failed")
		}

		if attempt < Repetitions {
			if err := s.sleep(ctx, s.interval); err != nil {
				return err
			}
		}
	}

	return nil
}
