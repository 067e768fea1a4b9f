package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/earncall"
	"github.com/poiesic/earncall/ai"
	"github.com/poiesic/earncall/ai/openai"
	"github.com/poiesic/earncall/chunking"
	"github.com/poiesic/earncall/core"
	"github.com/poiesic/earncall/dataset"
	"github.com/poiesic/earncall/ingestion"
	"github.com/poiesic/earncall/storage"
	"github.com/poiesic/earncall/taxonomy"
	"github.com/urfave/cli/v2"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func pipelineOptions(c *cli.Context) []ingestion.Option {
	opts := []ingestion.Option{
		ingestion.WithNumWorkers(c.Int("workers")),
		ingestion.WithMinSentences(c.Int("min-sentences")),
		ingestion.WithMaxChunkChars(c.Int("max-chars")),
		ingestion.WithThreshold(c.Float64("threshold")),
		ingestion.WithUnitTimeout(c.Duration("unit-timeout")),
		ingestion.WithAbortOnError(c.Bool("abort-on-error")),
		ingestion.WithFieldKeys(ingestion.FieldKeys{
			Text:    c.String("text-field"),
			Company: c.String("company-field"),
			Date:    c.String("date-field"),
		}),
		ingestion.WithCompanies(c.StringSlice("company")...),
	}
	if interval := c.Int("report-interval"); interval > 0 {
		opts = append(opts, ingestion.WithProgress(c.App.ErrWriter, interval))
	}
	return opts
}

// reportBatch prints per-transcript failures and turns them into the
// command's error. Other errors pass through.
func reportBatch(w io.Writer, err error) error {
	var batch *ingestion.BatchError
	if !errors.As(err, &batch) {
		return err
	}
	rows := make([][]string, 0, len(batch.Failures))
	for _, f := range batch.Failures {
		rows = append(rows, []string{f.TranscriptID.String(), f.Err.Error()})
	}
	fmt.Fprintln(w, renderTable([]string{"Transcript", "Error"}, rows, nil, 80))
	return cli.Exit(fmt.Sprintf("%d transcripts failed", len(batch.Failures)), 1)
}

func transcriptSummary(transcripts []*core.Transcript) string {
	rows := make([][]string, 0, len(transcripts))
	for _, t := range transcripts {
		quarter := "-"
		if t.Quarter != nil {
			quarter = *t.Quarter
		}
		rows = append(rows, []string{
			t.Company,
			t.Date.Format(time.DateOnly),
			quarter,
			strconv.Itoa(len(t.Chunks)),
			strconv.Itoa(t.SentenceCount()),
		})
	}
	return renderTable(
		[]string{"Company", "Date", "Quarter", "Chunks", "Sentences"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
		0,
	)
}

func chunkCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	rows, err := dataset.LoadRows(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	config, err := ai.ConfigFromEnv()
	if err != nil {
		return err
	}
	newEmbedder, err := openai.EmbedderFactory(config)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	pipeline, err := ingestion.NewPipeline(newEmbedder, pipelineOptions(c)...)
	if err != nil {
		return err
	}

	transcripts, runErr := pipeline.Process(ctx, rows)
	if transcripts == nil {
		return runErr
	}
	if c.Bool("sort") {
		slices.SortStableFunc(transcripts, func(a, b *core.Transcript) int {
			if n := strings.Compare(a.Company, b.Company); n != 0 {
				return n
			}
			return a.Date.Compare(b.Date)
		})
	}

	if err := writeTranscripts(c.App.Writer, c.String("output"), transcripts); err != nil {
		return err
	}

	fmt.Fprintln(c.App.ErrWriter, transcriptSummary(transcripts))
	return reportBatch(c.App.ErrWriter, runErr)
}

// writeTranscripts encodes transcripts as indented JSON to path, or to
// stdout when path is empty or "-".
func writeTranscripts(stdout io.Writer, path string, transcripts []*core.Transcript) (err error) {
	out := stdout
	if path != "" && path != "-" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(transcripts); err != nil {
		return fmt.Errorf("failed to write transcripts: %w", err)
	}
	return nil
}

func taxonomyCommand(c *cli.Context) error {
	defs := taxonomy.Definitions()
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(defs)
	}

	var rows [][]string
	for _, section := range defs {
		for _, cat := range section.Categories {
			rows = append(rows, []string{string(section.Namespace), cat.Name, cat.Definition})
		}
	}
	fmt.Fprintln(c.App.Writer, renderTable([]string{"Namespace", "Label", "Definition"}, rows, nil, 70))
	return nil
}

func promptInputs(c *cli.Context) []ai.PromptInput {
	return openai.DefaultInputs(c.String("main-entity"), c.String("date"), c.String("quarter"))
}

func promptCommand(c *cli.Context) error {
	prompt, err := openai.RenderExtractionPrompt(promptInputs(c), taxonomy.Definitions(), taxonomy.StatementSchema)
	if err != nil {
		return err
	}
	fmt.Fprint(c.App.Writer, prompt)
	return nil
}

func extractCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	var (
		data []byte
		err  error
	)
	if path := c.String("input"); path != "" && path != "-" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(c.App.Reader)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	config, err := ai.ConfigFromEnv()
	if err != nil {
		return err
	}
	provider, err := openai.NewProvider(config)
	if err != nil {
		return err
	}
	defer provider.Close()

	chunker, err := chunking.NewChunker(provider.Embedder())
	if err != nil {
		return err
	}
	chunks, err := chunker.Chunk(ctx, string(data))
	if err != nil {
		return err
	}

	inputs := promptInputs(c)
	var all []taxonomy.Statement
	rows := [][]string{}
	for i, chunk := range chunks {
		statements, err := provider.StatementExtractor().ExtractStatements(ctx, chunk.Text, inputs)
		if err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		for _, s := range statements {
			rows = append(rows, []string{strconv.Itoa(i), s.Statement, s.StatementType, s.TemporalType})
		}
		all = append(all, statements...)
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}
	fmt.Fprintln(c.App.Writer, renderTable(
		[]string{"Chunk", "Statement", "Type", "Temporal"},
		rows,
		[]columnAlignment{alignRight},
		70,
	))
	return nil
}

func openWorkspace(c *cli.Context, storageOnly bool) (*earncall.Workspace, error) {
	opts := []earncall.WorkspaceOption{earncall.WithBackend(earncall.Backend(c.String("backend")))}
	if storageOnly {
		opts = append(opts, earncall.StorageOnly())
	}
	w, err := earncall.Open(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return w, nil
}

func storeImportCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	rows, err := dataset.LoadRows(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	w, err := openWorkspace(c, false)
	if err != nil {
		return err
	}
	defer w.Close()

	pipeline, err := w.NewPipeline(pipelineOptions(c)...)
	if err != nil {
		return err
	}
	transcripts, runErr := pipeline.Process(ctx, rows)
	if transcripts == nil {
		return runErr
	}

	records, err := w.ImportTranscripts(ctx, transcripts)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.ErrWriter, "Stored %d transcripts in %s\n", len(records), c.String("db"))
	return reportBatch(c.App.ErrWriter, runErr)
}

func storePricesCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	records, err := dataset.LoadPriceBars(c.String("input"), c.String("company"))
	if err != nil {
		return fmt.Errorf("failed to load price history: %w", err)
	}

	w, err := openWorkspace(c, true)
	if err != nil {
		return err
	}
	defer w.Close()

	n, err := w.ImportPriceBars(ctx, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.ErrWriter, "Stored %d price bars in %s\n", n, c.String("db"))
	return nil
}

func storeListCommand(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	w, err := openWorkspace(c, true)
	if err != nil {
		return err
	}
	defer w.Close()
	store := w.Store()

	name := c.String("company")
	if name == "" {
		companies, err := store.QueryCompanies(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(companies))
		for _, co := range companies {
			rows = append(rows, []string{strconv.FormatUint(uint64(co.Id), 10), co.Name, co.Ticker, co.Sector})
		}
		fmt.Fprintln(c.App.Writer, renderTable([]string{"ID", "Name", "Ticker", "Sector"}, rows, []columnAlignment{alignRight}, 0))
		return nil
	}

	company, err := store.FindCompanyByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return cli.Exit(fmt.Sprintf("company %q not found", name), 1)
	}
	if err != nil {
		return err
	}
	records, err := store.QueryTranscripts(ctx, storage.TranscriptFilter{CompanyId: company.Id, Limit: c.Int("limit")})
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		quarter := "-"
		if q, ok := ingestion.FindQuarter(r.Text); ok {
			quarter = q
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(r.Id), 10),
			r.Date.Format(time.DateOnly),
			quarter,
			strconv.Itoa(len(r.Text)),
		})
	}
	fmt.Fprintln(c.App.Writer, renderTable(
		[]string{"ID", "Date", "Quarter", "Characters"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
		0,
	))
	return nil
}
