// Package ingestion turns dataset rows into chunked transcripts.
//
// BuildTranscripts converts rows into core.Transcript values, tagging each
// with the first fiscal-quarter marker found in its text. A Driver then
// chunks the transcripts in parallel on a bounded worker pool: every worker
// owns a workerContext holding its own embedder and Chunker, built lazily on
// the first transcript the worker receives and reused for the rest.
//
// Results are returned in completion order. A transcript whose processing
// fails does not abort the batch by default; the failure is reported in a
// *BatchError alongside the transcripts that succeeded. Pipeline ties row
// conversion and chunking together.
package ingestion
