package core

import (
	"encoding/binary"
	"strconv"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier derived from content.
// It is used for keying cached artifacts such as chunk embeddings.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID identifies a chunk within a single document index.
// The format is "{page}-{chunkIndex}" and is unique per index.
type ChunkID string

// NewChunkID builds a chunk ID from a page number and the chunk's
// position within that page.
func NewChunkID(page, index int) ChunkID {
	return ChunkID(strconv.Itoa(page) + "-" + strconv.Itoa(index))
}

// ContentType tags the shape of a chunk's content.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentTable ContentType = "table"
	ContentList  ContentType = "list"
	ContentImage ContentType = "image"
)

// SectionType is a heuristic classification of what kind of document
// section a span of text belongs to. It is a signal, not ground truth.
type SectionType string

const (
	SectionExplanation SectionType = "explanation"
	SectionGlossary    SectionType = "glossary"
	SectionTable       SectionType = "table"
	SectionDiagram     SectionType = "diagram"
	SectionProcedure   SectionType = "procedure"
	SectionFormula     SectionType = "formula"
	SectionWarning     SectionType = "warning"
	SectionExample     SectionType = "example"
	SectionUnknown     SectionType = "unknown"
)

// MatchType describes how a search candidate matched the query.
type MatchType string

const (
	MatchExact  MatchType = "exact"
	MatchPhrase MatchType = "phrase"
	MatchFuzzy  MatchType = "fuzzy"
)

// Chunk is the atomic retrieval unit: a contiguous span of page text.
// Chunks are created once during index build and are immutable afterwards,
// except for the Embedding field which is populated lazily while the
// lexical index is already queryable.
type Chunk struct {
	ID        ChunkID
	Page      int
	Index     int // order within the page
	Text      string
	Tokens    []string // stopword-filtered, numerics retained
	Length    int      // always len(Tokens)
	Keywords  []string
	Section   SectionType
	Content   ContentType
	Embedding []float32 // dense vector, attached asynchronously; nil until then
}

// HasEmbedding reports whether a dense vector has been attached.
func (c *Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// Posting records how many times a token occurs in one chunk.
// Postings are owned exclusively by the inverted index.
type Posting struct {
	ChunkID   ChunkID
	Frequency int
}

// Index is the single-document retrieval index: the chunk list, the
// inverted keyword index, and the average chunk token length used for
// BM25 length normalization. AverageLength is computed once at build
// time and never updated incrementally.
type Index struct {
	Chunks        []*Chunk
	Keywords      map[string][]Posting
	AverageLength float64

	byID map[ChunkID]*Chunk
}

// Chunk looks up a chunk by ID. A posting referencing an ID that is
// missing from the chunk table is an internal consistency violation,
// reported as ErrIndexCorrupt by callers.
func (ix *Index) Chunk(id ChunkID) (*Chunk, bool) {
	c, ok := ix.byID[id]
	return c, ok
}

// SetChunks replaces the chunk list and rebuilds the ID lookup table.
// Used by the index builder; external code must not mutate chunks after build.
func (ix *Index) SetChunks(chunks []*Chunk) {
	ix.Chunks = chunks
	ix.byID = make(map[ChunkID]*Chunk, len(chunks))
	for _, c := range chunks {
		ix.byID[c.ID] = c
	}
}

// SearchCandidate is a ranked query result. Score scales vary by
// scorer and are not normalized across scorers.
type SearchCandidate struct {
	Page       int
	ChunkID    ChunkID
	ChunkIndex int
	Score      float64
	Match      MatchType
	Excerpt    string
	Text       string
}

// Intent classifies what a question is asking for.
type Intent string

const (
	IntentDefinition  Intent = "definition"
	IntentProcedure   Intent = "procedure"
	IntentDiagnosis   Intent = "diagnosis"
	IntentComparison  Intent = "comparison"
	IntentCalculation Intent = "calculation"
	IntentOther       Intent = "other"
)

// QuestionAnalysis carries structured query-expansion signals derived
// from a natural-language question. It is ephemeral, consumed
// immediately by the search orchestrator.
type QuestionAnalysis struct {
	Intent       Intent
	KeyTerms     []string // deduplicated, capped at 12 plus numeric literals
	Negations    []string
	Constraints  []string // context windows around constraint words
	FocusPhrases []string // quoted substrings
}

// EvidenceType classifies how a passage relates to a candidate answer.
type EvidenceType string

const (
	EvidenceExplicit     EvidenceType = "explicit"
	EvidenceImplied      EvidenceType = "implied"
	EvidenceAbsent       EvidenceType = "absent"
	EvidenceContradicted EvidenceType = "contradicted"
)

// EvidenceLink is one supporting or contradicting passage for an
// answer option.
type EvidenceLink struct {
	Text         string
	Page         int
	ChunkID      ChunkID
	Relevance    float64
	Type         EvidenceType
	MatchedTerms []string
}

// EvidenceChain is the ranked evidence trail for one answer option.
// It is built fresh per question and never mutated after construction.
type EvidenceChain struct {
	Option     string // option letter, e.g. "A"
	OptionText string
	Links      []EvidenceLink // at most 5, ordered by relevance descending
	Overall    EvidenceType
	Confidence float64 // weighted confidence in [0,1]
}

// StepStatus is the lifecycle state of one progress step.
type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepActive   StepStatus = "active"
	StepComplete StepStatus = "complete"
)

// SearchStep is one entry in the ordered thinking-step trace emitted
// during multi-stage search. Callers may render the trace incrementally.
type SearchStep struct {
	Label  string
	Status StepStatus
	Detail string
}

// Page is a unit of raw document text supplied by the upstream text source.
type Page struct {
	Number int
	Text   string
}
