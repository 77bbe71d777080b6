package monitor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"rtt-prober/internal/models"
)

// Repetitions is the number of probes sent to every target per run
const Repetitions = 4

// Summary counts what a run did
type Summary struct {
	Targets   int
	Probes    int
	Successes int
	Failures  int
}

// Scheduler probes targets one at a time and streams successful results
type Scheduler struct {
	prober   models.Prober
	sink     models.Sink
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	log      logrus.FieldLogger
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithLogger sets the logger used for progress and failed probes
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Scheduler) { s.log = log }
}

// WithSleep replaces the inter-probe pause, mainly for tests
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Scheduler) { s.sleep = sleep }
}

// New creates a new Scheduler
func New(prober models.Prober, sink models.Sink, interval time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		prober:   prober,
		sink:     sink,
		interval: interval,
		sleep:    sleepContext,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run probes every target Repetitions times in list order. Failed probes
// produce no record and do not stop the run; only a sink error or ctx
// cancellation does.
func (s *Scheduler) Run(ctx context.Context, list []models.Target) (Summary, error) {
	var sum Summary

	s.log.WithFields(logrus.Fields{
		"targets":     len(list),
		"repetitions": Repetitions,
		"interval":    s.interval,
	}).Info("Starting probe run")

	for _, target := range list {
		if err := s.probeTarget(ctx, target, &sum); err != nil {
			return sum, err
		}
		sum.Targets++
	}

	s.log.WithFields(logrus.Fields{
		"targets":   sum.Targets,
		"probes":    sum.Probes,
		"successes": sum.Successes,
		"failures":  sum.Failures,
	}).Info("Probe run complete")

	return sum, nil
}
