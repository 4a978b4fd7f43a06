// Package index builds the single-document inverted index consumed by
// the retriever. The index is built wholesale from a chunk list and is
// read-only afterwards; replacing the document replaces the index.
package index
