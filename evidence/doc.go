// Package evidence builds per-option evidence chains for
// multiple-choice questions: each answer option gets a ranked trail of
// passages classified as explicit, implied, absent, or contradicted,
// with a weighted confidence used to pick the best-supported option.
//
// Contradiction detection here is rule-based and independent of any
// NLI judge model downstream consumers may additionally apply.
package evidence
