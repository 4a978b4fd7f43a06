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


package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorRoundTrip(t *testing.T) {
	vector := []float32{0.5, -1.25, 3, 0}

	decoded, err := UnmarshalVector(MarshalVector(vector))
	require.NoError(t, err)
	assert.Equal(t, vector, decoded)
}

func TestVectorRoundTrip_Empty(t *testing.T) {
	decoded, err := UnmarshalVector(MarshalVector(nil))
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestUnmarshalVector_Truncated(t *testing.T) {
	bs := MarshalVector([]float32{1, 2, 3})

	_, err := UnmarshalVector(bs[:len(bs)/2])
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestUnmarshalVector_EmptyInput(t *testing.T) {
	_, err := UnmarshalVector(nil)
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestUnmarshalVector_NegativeLength(t *testing.T) {
	// Zigzag varint 0x01 decodes to -1.
	_, err := UnmarshalVector([]byte{0x01})
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestCacheKey(t *testing.T) {
	key := CacheKey("nomic-embed-text", "some chunk text")

	assert.Equal(t, key, CacheKey("nomic-embed-text", "some chunk text"), "keys are deterministic")
	assert.NotEqual(t, key, CacheKey("other-model", "some chunk text"), "model changes the key")
	assert.NotEqual(t, key, CacheKey("nomic-embed-text", "other text"), "content changes the key")
}
