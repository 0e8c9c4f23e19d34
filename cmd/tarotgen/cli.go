package main

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kmorand/tarotgen/internal/config"
	"github.com/kmorand/tarotgen/internal/errors"
	"github.com/kmorand/tarotgen/internal/ops"
	"github.com/kmorand/tarotgen/internal/oracle"
	"github.com/kmorand/tarotgen/internal/prompt"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "tarotgen",
		Usage:   "Tarot reading training-data pipeline",
		Version: Version,
		Commands: []*cli.Command{
			generateCmd(db, cfg),
			batchCmd(cfg),
			nextCmd(),
			submitCmd(),
			coverageCmd(cfg),
			validateCmd(cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// generateCmd creates the generate command.
func generateCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate prompt records from a seeded draw sequence",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Aliases: []string{"c"}, Required: true, Usage: "Number of prompts to generate"},
			&cli.Int64Flag{Name: "seed", Aliases: []string{"s"}, Value: 42, Usage: "RNG seed; same seed reproduces the same corpus"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "prompts.json", Usage: "Output prompt file"},
			&cli.StringFlag{Name: "style", Value: string(prompt.StyleBalanced), Usage: "Reading style: balanced|mystical|practical"},
			&cli.StringFlag{Name: "data", Usage: "Oracle data directory (default: config data_dir)"},
			&cli.BoolFlag{Name: "no-ledger", Usage: "Skip cross-run id dedup and run recording"},
		},
		Action: func(c *cli.Context) error {
			meanings, err := oracle.Load(dataDir(c, cfg))
			if err != nil {
				return outputError(err)
			}

			database := db
			if c.Bool("no-ledger") {
				database = nil
			}

			output, err := ops.Generate(meanings, cfg, database, ops.GenerateInput{
				Count:      c.Int("count"),
				Seed:       c.Int64("seed"),
				OutputPath: c.String("out"),
				Style:      prompt.Style(c.String("style")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// batchCmd creates the batch command.
func batchCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Partition pending prompts into fixed-size batch files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "prompts", Aliases: []string{"p"}, Value: "prompts.json", Usage: "Prompt file to partition"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "batches", Usage: "Batch output directory"},
			&cli.IntFlag{Name: "size", Usage: "Prompts per batch (default: config batch_size)"},
			&cli.IntFlag{Name: "start", Value: 1, Usage: "First batch number"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Partition(cfg, ops.PartitionInput{
				PromptsPath: c.String("prompts"),
				OutDir:      c.String("out"),
				BatchSize:   c.Int("size"),
				StartBatch:  c.Int("start"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// nextCmd creates the next command.
func nextCmd() *cli.Command {
	return &cli.Command{
		Name:  "next",
		Usage: "List batches that have no responses file yet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: "batches", Usage: "Batch directory"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum batch names to list (0 = all)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.NextBatches(ops.NextInput{
				BatchesDir: c.String("dir"),
				Limit:      c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// submitCmd creates the submit command.
func submitCmd() *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "Write a batch responses file (reads JSONL lines from stdin)",
		ArgsUsage: "<batch file name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: "batches", Usage: "Batch directory"},
			&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing responses file"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("batch file name is required"))
			}
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("responses must be piped via stdin, one JSON object per line"))
			}

			responses, err := readResponseLines(os.Stdin)
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			output, err := ops.SubmitResponses(ops.SubmitInput{
				BatchesDir: c.String("dir"),
				BatchName:  c.Args().First(),
				Responses:  responses,
				Force:      c.Bool("force"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// coverageCmd creates the coverage command.
func coverageCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "coverage",
		Usage: "Analyze processed batches and write the coverage report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: "batches", Usage: "Batch directory"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Report file path (default: print to stdout)"},
			&cli.BoolFlag{Name: "html", Usage: "Also render the report as HTML next to the markdown file"},
			&cli.IntFlag{Name: "target", Value: 10000, Usage: "Corpus size the recommendations aim for"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("html") && c.String("out") == "" {
				return outputError(errors.NewInvalidRequest("--html requires --out"))
			}

			output, err := ops.Analyze(cfg, ops.AnalyzeInput{
				BatchesDir:  c.String("dir"),
				ReportPath:  c.String("out"),
				HTML:        c.Bool("html"),
				TargetTotal: c.Int("target"),
			})
			if err != nil {
				return outputError(err)
			}

			if c.String("out") == "" {
				fmt.Print(output.Markdown)
				return nil
			}
			return outputJSON(output)
		},
	}
}

// validateCmd creates the validate command.
func validateCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check the static tables and oracle data files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data", Usage: "Oracle data directory (default: config data_dir)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Validate(dataDir(c, cfg))
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// Helper functions

// dataDir resolves the oracle data directory from the flag or config.
func dataDir(c *cli.Context, cfg *config.Config) string {
	if dir := c.String("data"); dir != "" {
		return dir
	}
	return cfg.DataDir
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if pErr, ok := err.(*errors.PipelineError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", pErr.Code, pErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readResponseLines parses JSONL response lines from a reader.
func readResponseLines(r *os.File) ([]ops.ResponseLine, error) {
	var responses []ops.ResponseLine
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rl ops.ResponseLine
		if err := json.Unmarshal([]byte(line), &rl); err != nil {
			return nil, fmt.Errorf("line %d: %v", lineNo, err)
		}
		responses = append(responses, rl)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return responses, nil
}
