package chunking

import "errors"

var (
	// ErrMalformedText indicates input text that is not valid UTF-8.
	ErrMalformedText = errors.New("malformed text")

	// ErrNilEmbedder indicates a Chunker was constructed without an embedder.
	ErrNilEmbedder = errors.New("embedder is required")
)
