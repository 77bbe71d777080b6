package ping

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"rtt-prober/internal/models"
)

// DefaultBinary is the echo facility looked up on PATH
const DefaultBinary = "ping"

// rttPattern matches the per-reply latency, e.g. "time=12.345 ms"
var rttPattern = regexp.MustCompile(`time=(\d+\.\d+)`)

// Runner executes a command and returns its combined stdout and stderr
type Runner interface {
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// exitCoder is satisfied by *exec.ExitError
type exitCoder interface {
	ExitCode() int
}

// Pinger implements models.Prober using the system ping command
type Pinger struct {
	binary string
	runner Runner
	now    func() time.Time
}

// Option configures a Pinger
type Option func(*Pinger)

// WithBinary overrides the ping executable
func WithBinary(binary string) Option {
	return func(p *Pinger) { p.binary = binary }
}

// WithRunner replaces command execution, mainly for tests
func WithRunner(r Runner) Option {
	return func(p *Pinger) { p.runner = r }
}

// WithClock replaces the wall clock used for ObservedAt
func WithClock(now func() time.Time) Option {
	return func(p *Pinger) { p.now = now }
}

// New creates a new Pinger
func New(opts ...Option) *Pinger {
	p := &Pinger{
		binary: DefaultBinary,
		runner: execRunner{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe sends one echo request to target. Failures are reported in the
// result, never as an error.
func (p *Pinger) Probe(ctx context.Context, target models.Target) models.ProbeResult {
	result := models.ProbeResult{Target: target}

	output, err := p.runner.CombinedOutput(ctx, p.binary, pingArgs(target)...)
	if err != nil {
		var coded exitCoder
		switch {
		case ctx.Err() != nil:
			result.Reason = models.ReasonCanceled
			result.Detail = ctx.Err().Error()
		case errors.As(err, &coded):
			result.Reason = models.ReasonFacilityError
			result.Detail = firstLine(string(output))
			if result.Detail == "" {
				result.Detail = err.Error()
			}
		default:
			// the process never ran: missing binary, permissions
			result.Reason = models.ReasonFacilityMissing
			result.Detail = err.Error()
		}
		return result
	}

	rtt, ok := parsePingOutput(string(output))
	if !ok {
		result.Reason = models.ReasonUnparseable
		result.Detail = firstLine(string(output))
		return result
	}

	result.Success = true
	result.RTT = rtt
	result.ObservedAt = p.now()
	return result
}

// pingArgs builds a one-packet request. "--" keeps a target starting with
// a dash from being read as an option.
func pingArgs(target models.Target) []string {
	return []string{"-c", "1", "--", string(target)}
}

// parsePingOutput returns the first RTT found in output, exactly as printed
func parsePingOutput(output string) (string, bool) {
	matches := rttPattern.FindStringSubmatch(output)
	if len(matches) < 2 {
		return "", false
	}
	return matches[1], true
}

func firstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
