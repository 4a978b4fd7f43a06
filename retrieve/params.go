package retrieve

// Params collects the tuned retrieval constants. They are carried over
// from operational tuning rather than derived, so they are configurable
// instead of hard-coded.
type Params struct {
	// K1 and B are the standard BM25 term-frequency saturation and
	// length normalization parameters.
	K1 float64
	B  float64

	// PhraseBoost multiplies the BM25 score of chunks containing the
	// query as a verbatim phrase.
	PhraseBoost float64

	// TOCPenalty demotes chunks that look like table-of-contents or
	// index pages. TOCPhrasePenalty applies instead when such a chunk
	// also contains the exact query phrase.
	TOCPenalty       float64
	TOCPhrasePenalty float64

	// RRFK is the reciprocal rank fusion constant.
	RRFK int
}

// DefaultParams returns the standard retrieval parameters.
func DefaultParams() Params {
	return Params{
		K1:               1.6,
		B:                0.75,
		PhraseBoost:      8,
		TOCPenalty:       0.15,
		TOCPhrasePenalty: 0.7,
		RRFK:             60,
	}
}
