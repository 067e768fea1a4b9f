package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for persisted entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// TranscriptKey identifies a transcript by its content: the company, the
// calendar day of the call and the text. Two copies of the same call map to
// the same key regardless of time of day or zone.
func TranscriptKey(company string, date time.Time, text string) ID {
	return IDFromContent(company + "\x00" + date.UTC().Format(time.DateOnly) + "\x00" + text)
}

// Transcript is one earnings-call document plus its derived metadata.
// Chunks is nil until the transcript has been chunked, and is written exactly
// once by the worker that chunks it.
type Transcript struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"text"`
	Company string    `json:"company"`
	Date    time.Time `json:"date"`
	Quarter *string   `json:"quarter"`
	Chunks  []Chunk   `json:"chunks"`
}

// NewTranscript creates a transcript with a freshly generated ID.
func NewTranscript(text, company string, date time.Time, quarter *string) *Transcript {
	return &Transcript{
		ID:      uuid.New(),
		Text:    text,
		Company: company,
		Date:    date,
		Quarter: quarter,
	}
}

// SentenceCount returns the number of sentences covered by the transcript's chunks.
func (t *Transcript) SentenceCount() int {
	total := 0
	for _, c := range t.Chunks {
		total += c.Metadata.SentenceCount
	}
	return total
}

// Chunk is a bounded span of transcript text grouped for embedding and retrieval.
// Text is the chunk's sentences joined with single spaces, so it is not
// guaranteed to be byte-identical to the corresponding slice of the source.
type Chunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata locates a chunk within its transcript.
//
// StartIndex and EndIndex are character (code point) offsets into the
// transcript's sentences re-joined with single spaces, not into the raw
// transcript text. They are approximate pointers into the original document.
type ChunkMetadata struct {
	StartIndex    int `json:"start_index"`
	EndIndex      int `json:"end_index"`
	SentenceCount int `json:"sentence_count"`
}

// Company is a listed company that transcripts and prices belong to.
type Company struct {
	Id         ID
	Name       string
	Ticker     string
	Sector     string
	InsertedAt time.Time
}

// TranscriptRecord is the persisted form of a transcript.
// CompanyName is populated by queries and is not stored.
type TranscriptRecord struct {
	Id             ID
	CompanyId      ID
	CompanyName    string
	Date           time.Time
	Text           string
	SentimentScore *float64 // Optional sentiment analysis score
	InsertedAt     time.Time
}

// PriceBar is one day of trading prices for a company.
type PriceBar struct {
	Id         ID
	CompanyId  ID
	Date       time.Time
	Open       float64
	Close      float64
	High       float64
	Low        float64
	Volume     int64
	InsertedAt time.Time
}
