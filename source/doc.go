// Package source defines how raw document page text enters the engine.
//
// A PageSource turns a document (a PDF on disk, or pages already held in
// memory) into an ordered list of core.Page values. Everything downstream
// of this package works on plain text only.
package source
