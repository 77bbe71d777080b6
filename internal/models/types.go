package models

import (
	"context"
)

// Prober defines single echo request execution
type Prober interface {
	Probe(ctx context.Context, target Target) ProbeResult
}

// Sink receives latency records as they are produced
type Sink interface {
	Write(rec Record) error
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(rec Record) error

// Write calls f(rec)
func (f SinkFunc) Write(rec Record) error {
	return f(rec)
}
