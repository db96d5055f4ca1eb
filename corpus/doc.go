// Package corpus turns source documents into a deduplicated, quality-filtered
// paragraph corpus.
//
// The pipeline is: page text extraction, paragraph segmentation, opening
// sentence extraction, and quality filtering, orchestrated by Builder across
// a CPU-bound worker pool. Builder output is sorted by paragraph id so that
// two builds over the same inputs are byte-identical regardless of worker
// completion order.
package corpus
