package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCache_PutGet(t *testing.T) {
	cache := NewSessionCache(time.Minute)

	_, ok := cache.Get()
	assert.False(t, ok, "empty cache must miss")

	cache.Put(SessionEntry{Question: "first", Context: "some context", Pages: []int{3}})

	entry, ok := cache.Get()
	require.True(t, ok)
	assert.Equal(t, "first", entry.Question)
	assert.Equal(t, []int{3}, entry.Pages)
	assert.False(t, entry.Timestamp.IsZero(), "Put stamps the entry")
}

func TestSessionCache_RecordAnswer(t *testing.T) {
	cache := NewSessionCache(time.Minute)
	cache.Put(SessionEntry{Question: "what torque?", Context: "some context"})

	cache.RecordAnswer("what torque?", "90 Nm")

	entry, ok := cache.Get()
	require.True(t, ok)
	assert.Equal(t, "90 Nm", entry.Answer)
}

func TestSessionCache_RecordAnswer_MismatchedQuestion(t *testing.T) {
	cache := NewSessionCache(time.Minute)
	cache.Put(SessionEntry{Question: "what torque?"})

	cache.RecordAnswer("which oil?", "10W-40")

	entry, ok := cache.Get()
	require.True(t, ok)
	assert.Empty(t, entry.Answer, "an answer only attaches to its own question")
}

func TestSessionCache_RecordAnswer_EmptyCache(t *testing.T) {
	cache := NewSessionCache(time.Minute)

	cache.RecordAnswer("what torque?", "90 Nm")

	_, ok := cache.Get()
	assert.False(t, ok)
}

func TestSessionCache_TTLExpiry(t *testing.T) {
	cache := NewSessionCache(10 * time.Millisecond)
	cache.Put(SessionEntry{Question: "ephemeral"})

	time.Sleep(30 * time.Millisecond)

	_, ok := cache.Get()
	assert.False(t, ok, "entry older than the TTL must miss")

	_, ok = cache.Get()
	assert.False(t, ok, "expired entry stays cleared")
}

func TestSessionCache_LastWriterWins(t *testing.T) {
	cache := NewSessionCache(time.Minute)
	cache.Put(SessionEntry{Question: "first"})
	cache.Put(SessionEntry{Question: "second"})

	entry, ok := cache.Get()
	require.True(t, ok)
	assert.Equal(t, "second", entry.Question)
}

func TestSessionCache_Invalidate(t *testing.T) {
	cache := NewSessionCache(time.Minute)
	cache.Put(SessionEntry{Question: "gone soon"})
	cache.Invalidate()

	_, ok := cache.Get()
	assert.False(t, ok)
}

func TestSessionCache_Disable(t *testing.T) {
	cache := NewSessionCache(time.Minute)
	cache.Put(SessionEntry{Question: "before"})
	cache.Disable()

	_, ok := cache.Get()
	assert.False(t, ok)

	cache.Put(SessionEntry{Question: "after"})
	_, ok = cache.Get()
	assert.False(t, ok, "Put is a no-op once disabled")
}

func TestNewSessionCache_DefaultTTL(t *testing.T) {
	cache := NewSessionCache(0)
	assert.Equal(t, DefaultSessionTTL, cache.ttl)
}
