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

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Page must be positive
//   - Length must equal len(Tokens)
//
// NOT validated (populated later or optional):
//   - Embedding (attached asynchronously after the lexical index is usable)
//   - Keywords, Section, Content (heuristic metadata)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkID)
	}

	if chunk.Page < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidPage)
	}

	if chunk.Length != len(chunk.Tokens) {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrLengthMismatch)
	}

	return nil
}
