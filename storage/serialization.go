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
	"fmt"

	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MarshalVector serializes an embedding vector to MUS bytes: a varint
// length followed by raw float32 values.
func MarshalVector(vector []float32) []byte {
	size := varint.Int.Size(len(vector))
	for _, value := range vector {
		size += raw.Float32.Size(value)
	}

	bs := make([]byte, size)
	n := varint.Int.Marshal(len(vector), bs)
	for _, value := range vector {
		n += raw.Float32.Marshal(value, bs[n:])
	}
	return bs
}

// UnmarshalVector deserializes an embedding vector from MUS bytes.
func UnmarshalVector(bs []byte) ([]float32, error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative vector length %d", ErrCorruptRecord, length)
	}

	vector := make([]float32, length)
	for i := range vector {
		var consumed int
		vector[i], consumed, err = raw.Float32.Unmarshal(bs[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
		}
		n += consumed
	}
	return vector, nil
}
