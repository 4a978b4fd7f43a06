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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyChunkID indicates the chunk ID field is empty.
	ErrEmptyChunkID = errors.New("chunk id cannot be empty")

	// ErrInvalidPage indicates a page number is not positive.
	ErrInvalidPage = errors.New("page number must be positive")

	// ErrLengthMismatch indicates a chunk's Length does not equal len(Tokens).
	ErrLengthMismatch = errors.New("chunk length must equal token count")

	// ErrIndexCorrupt indicates the inverted index references a chunk
	// that is missing from the chunk table. This means the index was
	// built incorrectly and cannot be worked around.
	ErrIndexCorrupt = errors.New("index corrupt: posting references unknown chunk")
)
