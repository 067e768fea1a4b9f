package ingestion

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipeline(t *testing.T) {
	_, err := NewPipeline(nil)
	assert.ErrorIs(t, err, ErrEmbedderFactoryRequired)

	var built atomic.Int64
	p, err := NewPipeline(countingFactory(&built), WithNumWorkers(7))
	require.NoError(t, err)
	assert.Equal(t, 7, p.Driver().NumWorkers())
}

func TestPipelineProcess(t *testing.T) {
	var built atomic.Int64
	p, err := NewPipeline(countingFactory(&built), WithNumWorkers(2), WithMinSentences(1), WithMaxChunkChars(10))
	require.NoError(t, err)

	out, err := p.Process(context.Background(), sampleRows())
	require.NoError(t, err)
	require.Len(t, out, 3)

	byCompany := map[string]int{}
	for _, tr := range out {
		byCompany[tr.Company] = len(tr.Chunks)
	}
	assert.Equal(t, map[string]int{"Apple": 2, "Microsoft": 2, "Nvidia": 1}, byCompany)
}

func TestPipelineProcess_CompanyFilterAndKeys(t *testing.T) {
	var built atomic.Int64
	rows := []Row{
		{"body": "Apple call. Revenue grew. Q1 2024 closed.", "issuer": "Apple", "day": "2024-01-25"},
		{"body": "Tesla call. Deliveries fell.", "issuer": "Tesla", "day": "2024-01-24"},
	}

	p, err := NewPipeline(countingFactory(&built),
		WithFieldKeys(FieldKeys{Text: "body", Company: "issuer", Date: "day"}),
		WithCompanies("Apple"))
	require.NoError(t, err)

	out, err := p.Process(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Apple", out[0].Company)
	require.NotNil(t, out[0].Quarter)
	assert.Equal(t, "Q1 2024", *out[0].Quarter)
	require.Len(t, out[0].Chunks, 1)
	assert.Equal(t, 3, out[0].Chunks[0].Metadata.SentenceCount)
}

func TestPipelineProcess_InvalidRow(t *testing.T) {
	var built atomic.Int64
	p, err := NewPipeline(countingFactory(&built))
	require.NoError(t, err)

	_, err = p.Process(context.Background(), []Row{{"company": "Apple"}})
	assert.ErrorIs(t, err, ErrInvalidRow)
	assert.Zero(t, built.Load())
}
