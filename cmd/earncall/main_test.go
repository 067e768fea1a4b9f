package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/earncall/ai"
	"github.com/poiesic/earncall/core"
	"github.com/poiesic/earncall/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const sampleCSV = "transcript,company,date\n" +
	"\"Q1 2024 earnings call. Revenue grew 10%. Margins held steady. We raised guidance.\",Acme,2024-04-15\n" +
	"\"Demand stayed strong. Costs fell. Buybacks continue.\",Bolt,2024-05-01\n"

// runApp runs the CLI with args and returns what it wrote to stdout and stderr.
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	err := app.Run(append([]string{"earncall"}, args...))
	return stdout.String(), stderr.String(), err
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calls.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func withAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("EARNCALL_API_KEY", "test-key")
}

func TestSetupLogger(t *testing.T) {
	_, _, err := runApp(t, "--log-level", "verbose", "taxonomy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, _, err = runApp(t, "--log-level", "DEBUG", "taxonomy")
	assert.NoError(t, err)
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("EARNCALL_TEST_VALUE=loaded\n"), 0o644))
	t.Setenv("EARNCALL_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("EARNCALL_TEST_VALUE"))

	_, _, err := runApp(t, "--env-file", path, "taxonomy")
	require.NoError(t, err)
	assert.Equal(t, "loaded", os.Getenv("EARNCALL_TEST_VALUE"))

	_, _, err = runApp(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"), "taxonomy")
	assert.Error(t, err)
}

func TestTaxonomyCommand(t *testing.T) {
	stdout, _, err := runApp(t, "taxonomy")
	require.NoError(t, err)
	for _, label := range []string{"FACT", "OPINION", "PREDICTION", "STATIC", "DYNAMIC", "ATEMPORAL"} {
		assert.Contains(t, stdout, label)
	}

	stdout, _, err = runApp(t, "taxonomy", "--json")
	require.NoError(t, err)
	var sections []taxonomy.Section
	require.NoError(t, json.Unmarshal([]byte(stdout), &sections))
	require.Len(t, sections, 2)
	assert.Equal(t, taxonomy.Episode, sections[0].Namespace)
}

func TestPromptCommand(t *testing.T) {
	stdout, _, err := runApp(t, "prompt", "--main-entity", "TechNova Inc", "--quarter", "Q1 2024")
	require.NoError(t, err)
	assert.Contains(t, stdout, "- main_entity: TechNova Inc")
	assert.Contains(t, stdout, "- quarter: Q1 2024")
	assert.Contains(t, stdout, "EPISODE LABELLING DEFINITIONS & GUIDANCE")
}

func TestChunkCommand(t *testing.T) {
	withAPIKey(t)
	input := writeSample(t)
	output := filepath.Join(t.TempDir(), "chunks.json")

	_, stderr, err := runApp(t, "chunk", "--input", input, "--output", output, "--workers", "2", "--sort", "--report-interval", "0")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Acme")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var transcripts []core.Transcript
	require.NoError(t, json.Unmarshal(data, &transcripts))
	require.Len(t, transcripts, 2)
	assert.Equal(t, "Acme", transcripts[0].Company)
	require.NotNil(t, transcripts[0].Quarter)
	assert.Equal(t, "Q1 2024", *transcripts[0].Quarter)
	assert.Nil(t, transcripts[1].Quarter)
	assert.NotEmpty(t, transcripts[0].Chunks)
}

func TestChunkCommand_CompanyFilter(t *testing.T) {
	withAPIKey(t)
	input := writeSample(t)

	stdout, _, err := runApp(t, "chunk", "--input", input, "--company", "Bolt", "--report-interval", "0")
	require.NoError(t, err)
	var transcripts []core.Transcript
	require.NoError(t, json.Unmarshal([]byte(stdout), &transcripts))
	require.Len(t, transcripts, 1)
	assert.Equal(t, "Bolt", transcripts[0].Company)
}

func TestChunkCommand_MissingCredential(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("EARNCALL_API_KEY", "")

	_, _, err := runApp(t, "chunk", "--input", writeSample(t))
	assert.ErrorIs(t, err, ai.ErrMissingCredential)

	_, _, err = runApp(t, "chunk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestExtractCommand_MissingCredential(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("EARNCALL_API_KEY", "")
	path := filepath.Join(t.TempDir(), "chunk.txt")
	require.NoError(t, os.WriteFile(path, []byte("Revenue grew."), 0o644))

	_, _, err := runApp(t, "extract", "--input", path)
	assert.ErrorIs(t, err, ai.ErrMissingCredential)
}

func TestStoreCommands(t *testing.T) {
	for _, backend := range []string{"badger", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			withAPIKey(t)
			db := filepath.Join(t.TempDir(), "store")

			_, stderr, err := runApp(t, "store", "import", "--db", db, "--backend", backend,
				"--input", writeSample(t), "--report-interval", "0")
			require.NoError(t, err)
			assert.Contains(t, stderr, "Stored 2 transcripts")

			prices := filepath.Join(t.TempDir(), "prices.csv")
			require.NoError(t, os.WriteFile(prices, []byte(
				"date,open,close,high,low,volume\n2024-04-15,10,11,12,9,1000\n"), 0o644))
			_, stderr, err = runApp(t, "store", "prices", "--db", db, "--backend", backend,
				"--input", prices, "--company", "Acme")
			require.NoError(t, err)
			assert.Contains(t, stderr, "Stored 1 price bars")

			stdout, _, err := runApp(t, "store", "list", "--db", db, "--backend", backend)
			require.NoError(t, err)
			assert.Contains(t, stdout, "Acme")
			assert.Contains(t, stdout, "Bolt")

			stdout, _, err = runApp(t, "store", "list", "--db", db, "--backend", backend, "--company", "Acme")
			require.NoError(t, err)
			assert.Contains(t, stdout, "2024-04-15")
			assert.Contains(t, stdout, "Q1 2024")

			_, _, err = runApp(t, "store", "list", "--db", db, "--backend", backend, "--company", "Nobody")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not found")
		})
	}
}

func TestWriteTranscripts(t *testing.T) {
	transcripts := []*core.Transcript{{Text: "Revenue grew.", Company: "Acme"}}

	var stdout bytes.Buffer
	require.NoError(t, writeTranscripts(&stdout, "-", transcripts))
	assert.Contains(t, stdout.String(), `"company": "Acme"`)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeTranscripts(&stdout, path, transcripts))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Revenue grew.")

	err = writeTranscripts(&stdout, filepath.Join(t.TempDir(), "missing", "out.json"), transcripts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")

	if _, statErr := os.Stat("/dev/full"); statErr == nil {
		err = writeTranscripts(&stdout, "/dev/full", transcripts)
		assert.Error(t, err, "a write that cannot be flushed must be reported")
	}
}
