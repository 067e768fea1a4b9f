// Package chunking splits transcript text into sentences and groups those
// sentences into bounded chunks.
//
// The active grouping policy is length-bounded: sentences accumulate until
// the group holds at least MinSentences sentences and its running length
// exceeds MaxChunkChars, or the last sentence is reached. Any remainder is
// flushed as a final chunk. Lengths are counted in Unicode code points.
//
// SimilarityThreshold and the embedder held by a Chunker are reserved for a
// semantic grouping mode; the length-bounded policy does not consult them.
//
// Chunk offsets refer to the text obtained by joining all sentences of the
// transcript with single spaces, not to the raw input. Sentence terminators
// are dropped by segmentation, so chunk text never contains them.
package chunking
