// Package mock provides deterministic test doubles for the ai package
// interfaces. Mock embeddings are derived from text hashes so identical
// text always produces identical vectors.
package mock
