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


// Package search provides multi-stage question answering over a document index.
//
// The Service type owns the index on a dedicated goroutine; all reads and
// embedding updates flow through typed request messages, so retrieval never
// races with background backfill.
//
// The Searcher type implements the top-level orchestration:
//   - Question analysis and quiz detection
//   - Decomposition into sub-questions searched concurrently
//   - Merge, rescore, and page-tagged context assembly
//   - Evidence chain construction for multiple-choice questions
//
// A session cache serves follow-up questions from the previous search's
// context, and a caller-visible step trace reports progress incrementally.
// On timeout the searcher falls back to a single-shot retrieval and returns
// a lower-confidence result instead of an error.
package search
