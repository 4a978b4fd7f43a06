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


// Package retrieve ranks document chunks against queries.
//
// The Retriever provides BM25 lexical scoring over the inverted index,
// a phrase-boosted variant with table-of-contents demotion, and hybrid
// retrieval fusing lexical and dense-vector rankings with reciprocal
// rank fusion. ScoreCandidate additionally scores one arbitrary
// passage against a query for fine-grained re-ranking and excerpting.
//
// Missing results are expressed as empty lists; the only error path is
// an internal index consistency violation (core.ErrIndexCorrupt).
package retrieve
