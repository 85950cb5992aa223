package sql

import (
	"fmt"
	"strings"
	"time"
)

// Metric identifies one entry in a performance Record. Keys are namespaced
// strings so records can be merged with metrics from other layers without
// collisions.
type Metric string

// Well-known metrics populated by the execution funnel.
const (
	// MetricExecutionDuration is the wall-clock duration of the whole
	// execution, from serialization through the last delivered row.
	MetricExecutionDuration Metric = "sqlkit.execution.duration"
	// MetricSerializationDuration is the time spent turning the statement
	// tree into SQL text and binds.
	MetricSerializationDuration Metric = "sqlkit.serialization.duration"
	// MetricParameterEncodingDuration is the time spent preparing bind
	// values for the driver.
	MetricParameterEncodingDuration Metric = "sqlkit.parameter_encoding.duration"
	// MetricProcessingDuration is the time spent iterating the result set.
	MetricProcessingDuration Metric = "sqlkit.processing.duration"
	// MetricRowDecodingDuration is the accumulated time spent inside per-row
	// callbacks.
	MetricRowDecodingDuration Metric = "sqlkit.row_decoding.duration"
	// MetricResultDecodingDuration is the accumulated time spent decoding
	// rows into structured records.
	MetricResultDecodingDuration Metric = "sqlkit.result_decoding.duration"
	// MetricQueryText is the serialized statement text, placeholder-collapsed
	// and truncated for high-arity statements.
	MetricQueryText Metric = "sqlkit.query.text"
	// MetricBindCount is the number of bound parameters.
	MetricBindCount Metric = "sqlkit.query.bind_count"
	// MetricRowCount is the number of rows the result set produced. It is
	// present (possibly zero) whenever result retrieval was attempted.
	MetricRowCount Metric = "sqlkit.result.row_count"
	// MetricFallback flags executions measured by the funnel's generic
	// timing path rather than a driver-native instrumentation path.
	MetricFallback Metric = "sqlkit.execution.fallback"
)

// Kind tags the value stored for a metric.
type Kind uint8

// Value kinds.
const (
	KindDuration Kind = iota
	KindCount
	KindFlag
	KindNote
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindDuration:
		return "duration"
	case KindCount:
		return "count"
	case KindFlag:
		return "flag"
	case KindNote:
		return "note"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// numeric reports whether values of this kind participate in arithmetic
// merge operations.
func (k Kind) numeric() bool {
	return k == KindDuration || k == KindCount
}

// Value is a tagged metric value: a duration, a count, a flag or a note.
type Value struct {
	kind Kind
	dur  time.Duration
	num  int64
	flag bool
	note string
}

// DurationValue returns a duration-kinded value.
func DurationValue(d time.Duration) Value {
	return Value{kind: KindDuration, dur: d}
}

// CountValue returns a count-kinded value.
func CountValue(n int64) Value {
	return Value{kind: KindCount, num: n}
}

// FlagValue returns a flag-kinded value.
func FlagValue(b bool) Value {
	return Value{kind: KindFlag, flag: b}
}

// NoteValue returns a note-kinded value.
func NoteValue(s string) Value {
	return Value{kind: KindNote, note: s}
}

// Kind returns the value's kind tag.
func (v Value) Kind() Kind { return v.kind }

// Duration returns the duration payload; zero for other kinds.
func (v Value) Duration() time.Duration { return v.dur }

// Count returns the count payload; zero for other kinds.
func (v Value) Count() int64 { return v.num }

// Flag returns the flag payload; false for other kinds.
func (v Value) Flag() bool { return v.flag }

// Note returns the note payload; empty for other kinds.
func (v Value) Note() string { return v.note }

// String returns a human-readable rendering of the value.
func (v Value) String() string {
	switch v.kind {
	case KindDuration:
		return formatDuration(v.dur)
	case KindCount:
		return fmt.Sprintf("%d", v.num)
	case KindFlag:
		return fmt.Sprintf("%t", v.flag)
	default:
		return v.note
	}
}

// formatDuration renders a duration for reporting. Stateless on purpose:
// no shared formatter instance is cached anywhere.
func formatDuration(d time.Duration) string {
	if d >= time.Millisecond {
		return d.Round(10 * time.Microsecond).String()
	}
	return d.String()
}

// add combines two values of the same kind: durations and counts sum, notes
// concatenate, flags take the newer value.
func (v Value) add(o Value) Value {
	switch v.kind {
	case KindDuration:
		v.dur += o.dur
	case KindCount:
		v.num += o.num
	case KindNote:
		v.note += o.note
	case KindFlag:
		v.flag = o.flag
	}
	return v
}

// Record is an ordered, append-write metric bag describing one execution.
// Iteration preserves the order of each metric's first appearance even if
// its value is later overwritten, keeping reports stable and readable.
//
// A Record is created fresh per execution, mutated only by the component
// performing the measurement, and never shared across concurrent
// executions, so it needs no locking.
type Record struct {
	order  []Metric
	values map[Metric]Value
}

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return &Record{values: make(map[Metric]Value)}
}

// Set records the value for the metric, last write wins. The metric keeps
// its original position in iteration order.
func (r *Record) Set(m Metric, v Value) {
	if _, ok := r.values[m]; !ok {
		r.order = append(r.order, m)
	}
	r.values[m] = v
}

// Add accumulates v into the metric's current value. A missing metric, or
// one holding a different kind, counts as the zero value of v's kind.
func (r *Record) Add(m Metric, v Value) {
	cur, ok := r.values[m]
	if !ok || cur.kind != v.kind {
		cur = Value{kind: v.kind}
	}
	r.Set(m, cur.add(v))
}

// Get returns the metric's value and whether it is present.
func (r *Record) Get(m Metric) (Value, bool) {
	v, ok := r.values[m]
	return v, ok
}

// Metrics returns the recorded metrics in first-appearance order.
func (r *Record) Metrics() []Metric {
	out := make([]Metric, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of recorded metrics.
func (r *Record) Len() int {
	return len(r.order)
}

// Apply adds metric from's value into metric to, in place, leaving from
// unchanged. Both metrics must already be present and share the same kind;
// flags cannot be applied. Violating either rule is a programming error and
// panics: this operation is internal bookkeeping for trusted call sites, not
// a surface for arbitrary input.
func (r *Record) Apply(from, to Metric) {
	a, aok := r.values[from]
	b, bok := r.values[to]
	if !aok || !bok {
		return
	}
	if a.kind != b.kind || a.kind == KindFlag {
		panic(fmt.Sprintf("sql: cannot apply %q (%s) to %q (%s)", from, a.kind, to, b.kind))
	}
	r.Set(to, b.add(a))
}

// Deduct subtracts metric from's value out of metric to, in place. Only
// numeric kinds (duration, count) can be deducted; anything else panics.
func (r *Record) Deduct(from, to Metric) {
	a, aok := r.values[from]
	b, bok := r.values[to]
	if !aok || !bok {
		return
	}
	if a.kind != b.kind || !a.kind.numeric() {
		panic(fmt.Sprintf("sql: cannot deduct %q (%s) from %q (%s)", from, a.kind, to, b.kind))
	}
	switch a.kind {
	case KindDuration:
		b.dur -= a.dur
	case KindCount:
		b.num -= a.num
	}
	r.Set(to, b)
}

// Aggregate merges another record into r for rolling a nested unit of work
// into its parent. Numeric metrics (durations, counts) sum, with a metric
// missing on either side treated as zero. Flag and note metrics describe a
// single execution and are not meaningful across several, so they are
// removed from r entirely, whether or not other carries them.
func (r *Record) Aggregate(other *Record) {
	kept := r.order[:0]
	for _, m := range r.order {
		if r.values[m].kind.numeric() {
			kept = append(kept, m)
		} else {
			delete(r.values, m)
		}
	}
	r.order = kept
	for _, m := range other.order {
		v := other.values[m]
		if !v.kind.numeric() {
			continue
		}
		r.Add(m, v)
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := NewRecord()
	for _, m := range r.order {
		out.Set(m, r.values[m])
	}
	return out
}

// String returns a human-readable one-line summary in first-appearance
// order.
func (r *Record) String() string {
	var sb strings.Builder
	for i, m := range r.order {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s=%s", m, r.values[m])
	}
	return sb.String()
}
