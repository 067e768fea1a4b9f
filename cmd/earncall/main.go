// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/earncall"
	"github.com/poiesic/earncall/ingestion"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "earncall",
		Usage: "Chunk and analyse earnings call transcripts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file",
				Value: ".env",
			},
		},
		Before: func(c *cli.Context) error {
			if err := setupLogger(c); err != nil {
				return err
			}
			return loadEnv(c)
		},
		Commands: []*cli.Command{
			{
				Name:   "chunk",
				Usage:  "Split transcripts into bounded chunks",
				Action: chunkCommand,
				Flags: append(append(rowFlags(), chunkFlags()...),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write chunked transcripts as JSON to this file (defaults to stdout)",
					},
					&cli.BoolFlag{
						Name:  "sort",
						Usage: "Order output by company and date instead of completion order",
					},
				),
			},
			{
				Name:   "taxonomy",
				Usage:  "Show the statement label taxonomy",
				Action: taxonomyCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the taxonomy as JSON",
					},
				},
			},
			{
				Name:   "prompt",
				Usage:  "Render the statement extraction prompt",
				Action: promptCommand,
				Flags:  promptInputFlags(),
			},
			{
				Name:   "extract",
				Usage:  "Extract labelled statements from text",
				Action: extractCommand,
				Flags: append(promptInputFlags(),
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Usage:   "Text file to extract from (defaults to stdin)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print statements as JSON",
					},
				),
			},
			{
				Name:  "store",
				Usage: "Manage the transcript store",
				Subcommands: []*cli.Command{
					{
						Name:   "import",
						Usage:  "Chunk a transcript dataset and store it",
						Action: storeImportCommand,
						Flags:  append(append(storeFlags(), rowFlags()...), chunkFlags()...),
					},
					{
						Name:   "prices",
						Usage:  "Store daily price history from a CSV or XLSX file",
						Action: storePricesCommand,
						Flags: append(storeFlags(),
							&cli.StringFlag{
								Name:     "input",
								Aliases:  []string{"i"},
								Usage:    "Price history file",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "company",
								Usage: "Attribute every row to this company",
							},
						),
					},
					{
						Name:   "list",
						Usage:  "List stored companies, or one company's transcripts",
						Action: storeListCommand,
						Flags: append(storeFlags(),
							&cli.StringFlag{
								Name:  "company",
								Usage: "List transcripts of this company",
							},
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Maximum number of transcripts to list",
								Value: 20,
							},
						),
					},
				},
			},
		},
	}
}

func rowFlags() []cli.Flag {
	keys := ingestion.DefaultFieldKeys()
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "input",
			Aliases:  []string{"i"},
			Usage:    "Dataset file (.json, .jsonl, .csv or .xlsx)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "text-field",
			Usage: "Row field holding the transcript text",
			Value: keys.Text,
		},
		&cli.StringFlag{
			Name:  "company-field",
			Usage: "Row field holding the company name",
			Value: keys.Company,
		},
		&cli.StringFlag{
			Name:  "date-field",
			Usage: "Row field holding the call date",
			Value: keys.Date,
		},
		&cli.StringSliceFlag{
			Name:    "company",
			Aliases: []string{"c"},
			Usage:   "Only process these companies (repeatable)",
		},
	}
}

func chunkFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Number of parallel chunking workers",
			Value:   ingestion.DefaultNumWorkers,
		},
		&cli.IntFlag{
			Name:  "min-sentences",
			Usage: "Minimum sentences per chunk",
			Value: 3,
		},
		&cli.IntFlag{
			Name:  "max-chars",
			Usage: "Maximum characters per chunk",
			Value: 500,
		},
		&cli.Float64Flag{
			Name:  "threshold",
			Usage: "Similarity threshold passed to the chunker",
			Value: 0.7,
		},
		&cli.DurationFlag{
			Name:  "unit-timeout",
			Usage: "Per-transcript time limit (0 disables)",
		},
		&cli.BoolFlag{
			Name:  "abort-on-error",
			Usage: "Stop the batch at the first failed transcript",
		},
		&cli.IntFlag{
			Name:  "report-interval",
			Usage: "Report progress every N transcripts (0 disables)",
			Value: 10,
		},
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to the store (directory for badger, file for sqlite)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Storage backend (badger, sqlite)",
			Value: string(earncall.BackendBadger),
		},
	}
}

func promptInputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "main-entity",
			Usage: "Company the text is about",
		},
		&cli.StringFlag{
			Name:  "date",
			Usage: "Publication date of the text",
		},
		&cli.StringFlag{
			Name:  "quarter",
			Usage: "Reporting quarter, e.g. \"Q1 2024\"",
		},
	}
}

// loadEnv reads the env file when it exists. A missing default file is not an error.
func loadEnv(c *cli.Context) error {
	path := c.String("env-file")
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if c.IsSet("env-file") {
			return fmt.Errorf("env file %s not found", path)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	slog.Debug("loaded environment file", "path", path)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
