package models

import "time"

// TimestampLayout is the second-precision local time format used in records
const TimestampLayout = "2006-01-02 15:04:05"

// Target is a single host identifier (hostname or IP literal)
type Target string

// FailureReason classifies why a probe produced no latency reading
type FailureReason string

const (
	ReasonFacilityMissing FailureReason = "echo facility unavailable"
	ReasonFacilityError   FailureReason = "echo facility error"
	ReasonUnparseable     FailureReason = "unparseable output"
	ReasonCanceled        FailureReason = "canceled"
)

// ProbeResult represents the outcome of a single echo request
type ProbeResult struct {
	Target     Target
	Success    bool
	RTT        string    // as printed by the echo facility, in milliseconds
	ObservedAt time.Time // set on success only
	Reason     FailureReason
	Detail     string
}

// Record returns the emitted form of a successful result
func (r ProbeResult) Record() Record {
	return Record{
		ObservedAt: r.ObservedAt,
		Target:     r.Target,
		RTT:        r.RTT,
	}
}

// Record is one latency line written to a sink
type Record struct {
	ObservedAt time.Time
	Target     Target
	RTT        string
}

// String formats the record as a tab-separated line without the newline
func (r Record) String() string {
	return r.ObservedAt.Format(TimestampLayout) + "\t" + string(r.Target) + "\t" + r.RTT
}
