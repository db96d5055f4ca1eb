package core

import "fmt"

// ParagraphID builds the stable identifier for a paragraph: the source
// document name plus a zero-padded sequence index. Identical inputs always
// produce identical ids, independent of processing order.
func ParagraphID(sourceName string, index int) string {
	return fmt.Sprintf("%s_p%04d", sourceName, index)
}

// ParagraphRecord is a persisted unit of retrievable text with stable
// identity and derived attributes. It is created once by the corpus builder;
// the difficulty score is filled in later by the difficulty indexer.
type ParagraphRecord struct {
	Id              string   `json:"id"`
	SourceName      string   `json:"source_name"`
	SourceFile      string   `json:"source_file"`
	ParagraphIndex  int      `json:"paragraph_index"`
	Text            string   `json:"text"`
	OpeningSentence string   `json:"opening_sentence"`
	WordCount       int      `json:"word_count"`
	Valid           bool     `json:"is_valid"`
	Difficulty      *float64 `json:"difficulty_score,omitempty"` // nil until indexed
}

// VectorEntry is the vector store's view of a valid paragraph: the full
// text, its embedding, and a metadata projection mirrored from the
// ParagraphRecord. Entries stay in 1:1 correspondence with the metadata
// store's valid records.
type VectorEntry struct {
	Id              string
	SourceName      string
	OpeningSentence string
	ParagraphIndex  int
	WordCount       int
	Text            string
	Vector          []float32
}

// Candidate is a transient search result referencing a paragraph.
// It is constructed per search call and never persisted.
type Candidate struct {
	Id              string
	SourceName      string
	OpeningSentence string
	Text            string
	ParagraphIndex  int
	WordCount       int
	Distance        *float64 // cosine distance; nil for unranked fallback results
}

// Snapshot is the corpus snapshot file layout: all paragraph records plus
// corpus-level metadata. Identical inputs produce byte-identical snapshots.
type Snapshot struct {
	Paragraphs []*ParagraphRecord `json:"paragraphs"`
	Metadata   SnapshotMetadata   `json:"metadata"`
}

// SnapshotMetadata summarizes a corpus build.
type SnapshotMetadata struct {
	TotalParagraphs int      `json:"total_paragraphs"`
	TotalSources    int      `json:"total_sources"`
	SourceNames     []string `json:"source_names"`
}
