package sql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	metricDur   Metric = "test.duration"
	metricCount Metric = "test.count"
	metricFlag  Metric = "test.flag"
	metricNote  Metric = "test.note"
)

func TestRecordSetGet(t *testing.T) {
	r := NewRecord()
	assert.Equal(t, 0, r.Len())

	_, ok := r.Get(metricDur)
	assert.False(t, ok)

	r.Set(metricDur, DurationValue(time.Second))
	v, ok := r.Get(metricDur)
	require.True(t, ok)
	assert.Equal(t, KindDuration, v.Kind())
	assert.Equal(t, time.Second, v.Duration())

	// Last write wins.
	r.Set(metricDur, DurationValue(2*time.Second))
	v, _ = r.Get(metricDur)
	assert.Equal(t, 2*time.Second, v.Duration())
	assert.Equal(t, 1, r.Len())
}

func TestRecordOrder(t *testing.T) {
	r := NewRecord()
	r.Set(metricDur, DurationValue(time.Second))
	r.Set(metricCount, CountValue(1))
	r.Set(metricNote, NoteValue("x"))

	// Overwriting keeps the first-appearance position.
	r.Set(metricDur, DurationValue(3*time.Second))
	assert.Equal(t, []Metric{metricDur, metricCount, metricNote}, r.Metrics())
}

func TestRecordAdd(t *testing.T) {
	r := NewRecord()

	// Adding to a missing metric starts from the zero value.
	r.Add(metricCount, CountValue(2))
	r.Add(metricCount, CountValue(3))
	v, ok := r.Get(metricCount)
	require.True(t, ok)
	assert.Equal(t, int64(5), v.Count())

	r.Add(metricDur, DurationValue(time.Second))
	r.Add(metricDur, DurationValue(500*time.Millisecond))
	v, _ = r.Get(metricDur)
	assert.Equal(t, 1500*time.Millisecond, v.Duration())

	// A kind mismatch resets to the zero of the added kind.
	r.Set(metricNote, NoteValue("x"))
	r.Add(metricNote, CountValue(1))
	v, _ = r.Get(metricNote)
	assert.Equal(t, KindCount, v.Kind())
	assert.Equal(t, int64(1), v.Count())
}

func TestRecordApply(t *testing.T) {
	r := NewRecord()
	r.Set(metricDur, DurationValue(500*time.Millisecond))
	r.Set(MetricExecutionDuration, DurationValue(time.Second))

	r.Apply(metricDur, MetricExecutionDuration)

	v, _ := r.Get(MetricExecutionDuration)
	assert.Equal(t, 1500*time.Millisecond, v.Duration())
	// The source metric is left unchanged.
	v, _ = r.Get(metricDur)
	assert.Equal(t, 500*time.Millisecond, v.Duration())
}

func TestRecordApplyMissingIsNoop(t *testing.T) {
	r := NewRecord()
	r.Set(metricDur, DurationValue(time.Second))

	r.Apply(metricDur, MetricExecutionDuration)
	_, ok := r.Get(MetricExecutionDuration)
	assert.False(t, ok)

	r.Apply("test.absent", metricDur)
	v, _ := r.Get(metricDur)
	assert.Equal(t, time.Second, v.Duration())
}

func TestRecordApplyPanics(t *testing.T) {
	t.Run("KindMismatch", func(t *testing.T) {
		r := NewRecord()
		r.Set(metricDur, DurationValue(time.Second))
		r.Set(metricCount, CountValue(1))
		assert.Panics(t, func() { r.Apply(metricDur, metricCount) })
	})
	t.Run("Flags", func(t *testing.T) {
		r := NewRecord()
		r.Set(metricFlag, FlagValue(true))
		r.Set("test.flag2", FlagValue(false))
		assert.Panics(t, func() { r.Apply(metricFlag, "test.flag2") })
	})
}

func TestRecordDeduct(t *testing.T) {
	r := NewRecord()
	r.Set(metricDur, DurationValue(500*time.Millisecond))
	r.Set(MetricExecutionDuration, DurationValue(1500*time.Millisecond))
	r.Set(metricCount, CountValue(2))
	r.Set(MetricRowCount, CountValue(5))

	r.Deduct(metricDur, MetricExecutionDuration)
	v, _ := r.Get(MetricExecutionDuration)
	assert.Equal(t, time.Second, v.Duration())

	r.Deduct(metricCount, MetricRowCount)
	v, _ = r.Get(MetricRowCount)
	assert.Equal(t, int64(3), v.Count())
}

func TestRecordDeductPanics(t *testing.T) {
	t.Run("KindMismatch", func(t *testing.T) {
		r := NewRecord()
		r.Set(metricDur, DurationValue(time.Second))
		r.Set(metricCount, CountValue(1))
		assert.Panics(t, func() { r.Deduct(metricCount, metricDur) })
	})
	t.Run("NonNumeric", func(t *testing.T) {
		r := NewRecord()
		r.Set(metricNote, NoteValue("a"))
		r.Set("test.note2", NoteValue("b"))
		assert.Panics(t, func() { r.Deduct(metricNote, "test.note2") })
	})
}

func TestRecordAggregate(t *testing.T) {
	a := NewRecord()
	a.Set(metricDur, DurationValue(time.Second))
	a.Set(metricCount, CountValue(2))
	a.Set(metricFlag, FlagValue(true))

	b := NewRecord()
	b.Set(metricDur, DurationValue(2*time.Second))
	b.Set(metricCount, CountValue(3))
	b.Set(metricNote, NoteValue("x"))

	a.Aggregate(b)

	// Numeric metrics sum; flags and notes do not survive aggregation.
	v, ok := a.Get(metricDur)
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, v.Duration())
	v, ok = a.Get(metricCount)
	require.True(t, ok)
	assert.Equal(t, int64(5), v.Count())
	_, ok = a.Get(metricFlag)
	assert.False(t, ok)
	_, ok = a.Get(metricNote)
	assert.False(t, ok)
	assert.Equal(t, 2, a.Len())

	// The other record is left untouched.
	v, ok = b.Get(metricNote)
	require.True(t, ok)
	assert.Equal(t, "x", v.Note())
}

func TestRecordAggregateMissingTreatedAsZero(t *testing.T) {
	a := NewRecord()
	a.Set(metricDur, DurationValue(time.Second))

	b := NewRecord()
	b.Set(metricCount, CountValue(4))

	a.Aggregate(b)

	v, _ := a.Get(metricDur)
	assert.Equal(t, time.Second, v.Duration())
	v, _ = a.Get(metricCount)
	assert.Equal(t, int64(4), v.Count())
}

func TestRecordClone(t *testing.T) {
	r := NewRecord()
	r.Set(metricDur, DurationValue(time.Second))
	r.Set(metricNote, NoteValue("x"))

	c := r.Clone()
	c.Set(metricDur, DurationValue(9*time.Second))
	c.Set(metricCount, CountValue(1))

	v, _ := r.Get(metricDur)
	assert.Equal(t, time.Second, v.Duration())
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 3, c.Len())
}

func TestRecordString(t *testing.T) {
	r := NewRecord()
	r.Set(metricCount, CountValue(3))
	r.Set(metricFlag, FlagValue(true))
	r.Set(metricNote, NoteValue("SELECT 1"))

	assert.Equal(t, "test.count=3 test.flag=true test.note=SELECT 1", r.String())
}

func TestValueAccessors(t *testing.T) {
	assert.Equal(t, time.Second, DurationValue(time.Second).Duration())
	assert.Equal(t, int64(7), CountValue(7).Count())
	assert.True(t, FlagValue(true).Flag())
	assert.Equal(t, "n", NoteValue("n").Note())

	// Accessors on the wrong kind return the zero value.
	assert.Zero(t, CountValue(7).Duration())
	assert.Zero(t, DurationValue(time.Second).Count())
	assert.False(t, NoteValue("n").Flag())
	assert.Empty(t, CountValue(7).Note())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "duration", KindDuration.String())
	assert.Equal(t, "count", KindCount.String())
	assert.Equal(t, "flag", KindFlag.String())
	assert.Equal(t, "note", KindNote.String())
}
