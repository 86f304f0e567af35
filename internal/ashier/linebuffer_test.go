package ashier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLineBufferInitialState(t *testing.T) {
	b := NewLineBuffer()
	assert.Equal(t, 1, b.Baseline())
	assert.Equal(t, 2, b.Bound())
	assert.Equal(t, "", b.GetLine(1))
}

func TestAppendRawSplitsCompleteLines(t *testing.T) {
	b := NewLineBuffer()
	b.AppendRaw("hello\nworld\n")
	assert.Equal(t, 4, b.Bound())
	assert.Equal(t, "hello", b.GetLine(1))
	assert.Equal(t, "world", b.GetLine(2))
	assert.Equal(t, "", b.GetLine(3))
}

func TestAppendRawStripsTrailingCR(t *testing.T) {
	b := NewLineBuffer()
	b.AppendRaw("hello\r\n")
	assert.Equal(t, "hello", b.GetLine(1))
}

func TestAppendRawLoneCRKeptInPartialTail(t *testing.T) {
	// A chunk boundary that splits a CRLF must not lose the CR: it
	// belongs to the partial tail until the following '\n' arrives.
	b := NewLineBuffer()
	b.AppendRaw("hello\r")
	assert.Equal(t, "hello\r", b.GetLine(1))
	b.AppendRaw("\nworld")
	assert.Equal(t, "hello", b.GetLine(1))
	assert.Equal(t, "world", b.GetLine(2))
}

func TestAppendRawFragmentationInvariant(t *testing.T) {
	// Splitting the same byte stream into different chunk boundaries
	// must produce identical final buffer contents.
	whole := NewLineBuffer()
	whole.AppendRaw("foo\nbar\nbaz")

	fragmented := NewLineBuffer()
	for _, chunk := range []string{"fo", "o\nb", "ar\nb", "az"} {
		fragmented.AppendRaw(chunk)
	}

	require.Equal(t, whole.Bound(), fragmented.Bound())
	for i := whole.Baseline(); i < whole.Bound(); i++ {
		assert.Equal(t, whole.GetLine(i), fragmented.GetLine(i))
	}
}

func TestUpdateBaselineDiscardsOldLines(t *testing.T) {
	b := NewLineBuffer()
	b.AppendRaw("a\nb\nc\n")
	b.UpdateBaseline(3)
	assert.Equal(t, 3, b.Baseline())
	assert.Equal(t, "c", b.GetLine(3))
}

func TestUpdateBaselineNoOpWhenUnchanged(t *testing.T) {
	b := NewLineBuffer()
	b.AppendRaw("a\nb\n")
	before := b.Bound()
	b.UpdateBaseline(b.Baseline())
	assert.Equal(t, 1, b.Baseline())
	assert.Equal(t, before, b.Bound())
}

func TestUpdateBaselineToBoundKeepsSentinelTail(t *testing.T) {
	// bound - baseline must never drop to 0: flushing all the way to the
	// current bound (the common case after a mandatory-flush match) must
	// leave a fresh empty partial tail so a following AppendRaw has a
	// tail element to extend instead of indexing an empty slice.
	b := NewLineBuffer()
	b.AppendRaw("hello\n")
	b.UpdateBaseline(b.Bound())
	assert.Equal(t, 1, b.Bound()-b.Baseline())
	assert.Equal(t, "", b.GetLine(b.Baseline()))

	require.NotPanics(t, func() { b.AppendRaw("world\n") })
	assert.Equal(t, "world", b.GetLine(b.Baseline()))
}

func TestUpdateBaselineOutOfRangePanics(t *testing.T) {
	b := NewLineBuffer()
	b.AppendRaw("a\n")
	assert.Panics(t, func() { b.UpdateBaseline(b.Baseline() - 1) })
	assert.Panics(t, func() { b.UpdateBaseline(b.Bound() + 1) })
}

func TestGetLineOutOfRangePanics(t *testing.T) {
	b := NewLineBuffer()
	assert.Panics(t, func() { b.GetLine(b.Baseline() - 1) })
	assert.Panics(t, func() { b.GetLine(b.Bound()) })
}
