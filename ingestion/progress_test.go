package ingestion

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Reporting(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)
	tracker.Start()

	tracker.Increment(5)
	assert.Empty(t, buf.String(), "below the report interval nothing is printed")

	tracker.Increment(5)
	assert.Contains(t, buf.String(), "10/100")
	assert.Contains(t, buf.String(), "10.0%")

	tracker.Finish()
	assert.Contains(t, buf.String(), "100/100")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"), "Finish terminates the progress line")
}

func TestProgressTracker_IncrementBeforeStart(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Increment(5)
	tracker.Finish()
	assert.Empty(t, buf.String())
}

func TestProgressTracker_SetTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 0, 1)
	tracker.SetTotal(4)
	tracker.Start()

	tracker.Increment(10)
	assert.Contains(t, buf.String(), "4/4", "progress is clamped to the total")
}

func TestProgressTracker_Elapsed(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1, 1)

	assert.Zero(t, tracker.Elapsed())

	tracker.Start()
	assert.GreaterOrEqual(t, tracker.Elapsed().Nanoseconds(), int64(0))
}
