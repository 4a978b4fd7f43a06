// Package badger implements the storage.VectorCache interface on
// BadgerDB. The cache survives document reloads so unchanged chunks
// skip re-embedding.
package badger
