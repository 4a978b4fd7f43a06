// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunkID(t *testing.T) {
	assert.Equal(t, ChunkID("3-0"), NewChunkID(3, 0))
	assert.Equal(t, ChunkID("12-7"), NewChunkID(12, 7))
}

func TestIDFromContent(t *testing.T) {
	id := IDFromContent("some content")

	assert.Equal(t, id, IDFromContent("some content"), "hashing is deterministic")
	assert.NotEqual(t, id, IDFromContent("other content"))
	assert.NotZero(t, id)
}

func TestIndex_ChunkLookup(t *testing.T) {
	ix := &Index{}
	chunk := &Chunk{ID: NewChunkID(1, 0), Page: 1}
	ix.SetChunks([]*Chunk{chunk})

	found, ok := ix.Chunk(chunk.ID)
	require.True(t, ok)
	assert.Same(t, chunk, found)

	_, ok = ix.Chunk("9-9")
	assert.False(t, ok)
}

func TestChunk_HasEmbedding(t *testing.T) {
	chunk := &Chunk{}
	assert.False(t, chunk.HasEmbedding())

	chunk.Embedding = []float32{0.1}
	assert.True(t, chunk.HasEmbedding())
}

func TestValidateChunk(t *testing.T) {
	valid := &Chunk{
		ID:     NewChunkID(1, 0),
		Page:   1,
		Tokens: []string{"pump", "seal"},
		Length: 2,
	}
	require.NoError(t, ValidateChunk(valid))

	tests := []struct {
		name    string
		mutate  func(*Chunk)
		wantErr error
	}{
		{"empty id", func(c *Chunk) { c.ID = "" }, ErrEmptyChunkID},
		{"zero page", func(c *Chunk) { c.Page = 0 }, ErrInvalidPage},
		{"length mismatch", func(c *Chunk) { c.Length = 5 }, ErrLengthMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := *valid
			tt.mutate(&chunk)
			err := ValidateChunk(&chunk)
			assert.ErrorIs(t, err, ErrInvalidChunk)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.ErrorIs(t, ValidateChunk(nil), ErrInvalidChunk)
}
