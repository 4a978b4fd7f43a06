// Package question analyzes natural-language questions without index
// access: intent classification, key-term and constraint extraction
// for query expansion, multiple-choice quiz detection, and sub-question
// decomposition for multi-stage search.
package question
