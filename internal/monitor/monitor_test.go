package monitor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtt-prober/internal/models"
	"rtt-prober/internal/output"
)

var observed = time.Date(2024, 3, 1, 12, 30, 45, 0, time.Local)

// scriptedProber replays RTTs per target in order; "" means a failed attempt
type scriptedProber struct {
	script map[models.Target][]string
	calls  []models.Target
}

func (p *scriptedProber) Probe(_ context.Context, target models.Target) models.ProbeResult {
	attempt := 0
	for _, c := range p.calls {
		if c == target {
			attempt++
		}
	}
	p.calls = append(p.calls, target)

	rtts := p.script[target]
	if attempt >= len(rtts) || rtts[attempt] == "" {
		return models.ProbeResult{
			Target: target,
			Reason: models.ReasonFacilityError,
			Detail: "exit status 2",
		}
	}
	return models.ProbeResult{
		Target:     target,
		Success:    true,
		RTT:        rtts[attempt],
		ObservedAt: observed,
	}
}

type sleepRecorder struct {
	pauses []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.pauses = append(r.pauses, d)
	return ctx.Err()
}

func newTestScheduler(prober models.Prober, sink models.Sink) (*Scheduler, *sleepRecorder, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	rec := &sleepRecorder{}
	s := New(prober, sink, 15*time.Second, WithLogger(logger), WithSleep(rec.sleep))
	return s, rec, hook
}

func lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestRunAllSucceed(t *testing.T) {
	prober := &scriptedProber{script: map[models.Target][]string{
		"10.0.0.1": {"1.23", "0.98", "1.05", "1.10"},
	}}
	var out strings.Builder
	s, sleeps, _ := newTestScheduler(prober, output.TSV(&out))

	sum, err := s.Run(context.Background(), []models.Target{"10.0.0.1"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2024-03-01 12:30:45\t10.0.0.1\t1.23",
		"2024-03-01 12:30:45\t10.0.0.1\t0.98",
		"2024-03-01 12:30:45\t10.0.0.1\t1.05",
		"2024-03-01 12:30:45\t10.0.0.1\t1.10",
	}, lines(out.String()))
	assert.Equal(t, Summary{Targets: 1, Probes: 4, Successes: 4}, sum)
	assert.Equal(t, []time.Duration{15 * time.Second, 15 * time.Second, 15 * time.Second}, sleeps.pauses)
}

func TestRunAllFail(t *testing.T) {
	prober := &scriptedProber{}
	var out strings.Builder
	s, _, hook := newTestScheduler(prober, output.TSV(&out))

	sum, err := s.Run(context.Background(), []models.Target{"bad.host"})
	require.NoError(t, err)

	assert.Empty(t, out.String())
	assert.Len(t, prober.calls, Repetitions)
	assert.Equal(t, Summary{Targets: 1, Probes: 4, Failures: 4}, sum)

	var failures int
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Probe failed" {
			failures++
			assert.Equal(t, logrus.DebugLevel, entry.Level)
			assert.Equal(t, models.Target("bad.host"), entry.Data["target"])
			assert.Equal(t, models.ReasonFacilityError, entry.Data["reason"])
		}
	}
	assert.Equal(t, Repetitions, failures)
}

func TestRunPartialFailureKeepsTargetOrder(t *testing.T) {
	prober := &scriptedProber{script: map[models.Target][]string{
		"a.com": {"1.0", "", "3.0", "4.0"},
		"b.com": {"5.0", "6.0", "7.0", "8.0"},
	}}
	var out strings.Builder
	s, sleeps, _ := newTestScheduler(prober, output.TSV(&out))

	sum, err := s.Run(context.Background(), []models.Target{"a.com", "b.com"})
	require.NoError(t, err)

	got := lines(out.String())
	require.Len(t, got, 7)
	for i, line := range got {
		fields := strings.Split(line, "\t")
		require.Len(t, fields, 3)
		if i < 3 {
			assert.Equal(t, "a.com", fields[1])
		} else {
			assert.Equal(t, "b.com", fields[1])
		}
	}
	assert.Equal(t, Summary{Targets: 2, Probes: 8, Successes: 7, Failures: 1}, sum)
	assert.Len(t, sleeps.pauses, 6)
}

func TestRunCallOrder(t *testing.T) {
	prober := &scriptedProber{}
	s, _, _ := newTestScheduler(prober, output.TSV(&strings.Builder{}))

	list := []models.Target{"c.com", "a.com", "b.com"}
	_, err := s.Run(context.Background(), list)
	require.NoError(t, err)

	var expected []models.Target
	for _, target := range list {
		for i := 0; i < Repetitions; i++ {
			expected = append(expected, target)
		}
	}
	assert.Equal(t, expected, prober.calls)
}

func TestRunEmptyList(t *testing.T) {
	prober := &scriptedProber{}
	s, sleeps, _ := newTestScheduler(prober, output.TSV(&strings.Builder{}))

	sum, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, sum)
	assert.Empty(t, prober.calls)
	assert.Empty(t, sleeps.pauses)
}

func TestRunSinkError(t *testing.T) {
	prober := &scriptedProber{script: map[models.Target][]string{
		"a.com": {"1.0", "2.0", "3.0", "4.0"},
	}}
	sink := models.SinkFunc(func(models.Record) error { return errors.New("broken pipe") })
	s, _, _ := newTestScheduler(prober, sink)

	sum, err := s.Run(context.Background(), []models.Target{"a.com", "b.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emit record for a.com")
	assert.Equal(t, 1, sum.Probes)
	assert.Len(t, prober.calls, 1)
}

func TestRunCanceled(t *testing.T) {
	prober := &scriptedProber{}
	ctx, cancel := context.WithCancel(context.Background())

	var probes int
	counting := proberFunc(func(ctx context.Context, target models.Target) models.ProbeResult {
		probes++
		if probes == 2 {
			cancel()
		}
		return prober.Probe(ctx, target)
	})
	s, _, _ := newTestScheduler(counting, output.TSV(&strings.Builder{}))

	_, err := s.Run(ctx, []models.Target{"a.com", "b.com"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, probes)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

type proberFunc func(ctx context.Context, target models.Target) models.ProbeResult

func (f proberFunc) Probe(ctx context.Context, target models.Target) models.ProbeResult {
	return f(ctx, target)
}
