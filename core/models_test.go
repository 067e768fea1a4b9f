package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "Apple Inc.",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "Q1 2024 earnings call transcript. Our revenue increased by 15% year-over-year.",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("Apple Inc.")
	id2 := IDFromContent("Microsoft Corp.")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestNewTranscript(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	a := NewTranscript("text", "Apple Inc.", date, nil)
	b := NewTranscript("text", "Apple Inc.", date, nil)

	if a.ID == uuid.Nil {
		t.Fatalf("NewTranscript() returned nil ID")
	}
	if a.ID == b.ID {
		t.Errorf("NewTranscript() reused ID %s", a.ID)
	}
	if a.Chunks != nil {
		t.Errorf("NewTranscript() chunks = %v, want nil", a.Chunks)
	}
}

func TestTranscript_SentenceCount(t *testing.T) {
	tr := &Transcript{Chunks: []Chunk{
		{Text: "A B", Metadata: ChunkMetadata{SentenceCount: 2}},
		{Text: "C", Metadata: ChunkMetadata{SentenceCount: 1}},
	}}

	if got := tr.SentenceCount(); got != 3 {
		t.Errorf("SentenceCount() = %d, want 3", got)
	}
}

func TestTranscript_JSONQuarterNull(t *testing.T) {
	tr := NewTranscript("text", "Apple Inc.", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), nil)

	data, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	quarter, ok := decoded["quarter"]
	if !ok {
		t.Fatalf("quarter key missing from %s", data)
	}
	if quarter != nil {
		t.Errorf("quarter = %v, want null", quarter)
	}
}

func TestChunkMetadata_JSONKeys(t *testing.T) {
	c := Chunk{Text: "A", Metadata: ChunkMetadata{StartIndex: 0, EndIndex: 1, SentenceCount: 1}}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	want := `{"text":"A","metadata":{"start_index":0,"end_index":1,"sentence_count":1}}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestTranscriptKey(t *testing.T) {
	morning := time.Date(2024, 4, 15, 9, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 4, 15, 18, 0, 0, 0, time.UTC)
	nextDay := time.Date(2024, 4, 16, 9, 30, 0, 0, time.UTC)

	base := TranscriptKey("Acme", morning, "Revenue grew.")
	if got := TranscriptKey("Acme", evening, "Revenue grew."); got != base {
		t.Errorf("same day produced different keys: %d vs %d", base, got)
	}
	if got := TranscriptKey("Acme", nextDay, "Revenue grew."); got == base {
		t.Error("different day produced the same key")
	}
	if got := TranscriptKey("Bolt", morning, "Revenue grew."); got == base {
		t.Error("different company produced the same key")
	}
	if got := TranscriptKey("Acme", morning, "Revenue fell."); got == base {
		t.Error("different text produced the same key")
	}
	if TranscriptKey("Ac", morning, "meRevenue") == TranscriptKey("Acme", morning, "Revenue") {
		t.Error("field boundaries are not separated")
	}
}
