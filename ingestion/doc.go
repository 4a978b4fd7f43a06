// Package ingestion builds searchable indexes from document page sources.
//
// The Pipeline type manages the loading workflow:
//   - Extracting page text from a source
//   - Chunking pages and building the inverted index
//   - Backfilling dense embeddings asynchronously
//
// Embedding backfill runs on a worker pool and consults a persistent
// vector cache keyed by model and chunk content, so reloading a document
// does not re-embed unchanged chunks. Backfill failures are logged and
// degrade search to sparse-only ranking rather than failing the load.
package ingestion
