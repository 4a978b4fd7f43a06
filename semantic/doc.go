// Package semantic provides the two similarity mechanisms used by
// hybrid retrieval: lightweight sparse bag-of-words vectors with
// bigram features, and cosine similarity over externally supplied
// dense embedding vectors.
package semantic
