package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rg0now/next-migration-survey/pkg/analyzer"
	"github.com/rg0now/next-migration-survey/pkg/config"
	"github.com/rg0now/next-migration-survey/pkg/framework"
	"github.com/rg0now/next-migration-survey/pkg/logger"
	"github.com/rg0now/next-migration-survey/pkg/models"
	"github.com/rg0now/next-migration-survey/pkg/output"
	"github.com/rg0now/next-migration-survey/pkg/source"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nextmig",
		Short: "Survey a Next.js project for a migration to React Router",
		Long: `A static analysis tool that estimates how much of a Next.js to
React Router migration can be automated, and rewrites common
Next.js idioms with a rule-based transform engine.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(routesCmd())
	rootCmd.AddCommand(transformCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(reportCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration of projectDir and installs the default
// logger on stderr.
func setup(projectDir string, verbose bool) (*config.Config, error) {
	cfg, err := config.Load(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel()
	if verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	return cfg, nil
}

// loadHandles lists the project files of a directory or a txtar archive.
func loadHandles(projectDir, archive string, cfg *config.Config) ([]source.Handle, error) {
	if archive != "" {
		return source.FromArchive(archive)
	}
	return source.FromDir(projectDir, cfg.WalkOptions())
}

func projectArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// analyzeCmd runs the whole readiness pipeline.
func analyzeCmd() *cobra.Command {
	var (
		archive      string
		format       string
		outputFile   string
		hotspotsFile string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a project for migration readiness",
		Long: `Analyze a Next.js project and report codebase facts, routes,
dependencies, a readiness score and per-file hotspots.

Examples:
  # Analyze the project in the working directory
  nextmig analyze

  # Analyze a project packed as a txtar archive, as JSON
  nextmig analyze --archive=shop.txtar --format=json

  # Write hotspots as JSON lines for the report command
  nextmig analyze ./web --hotspots=hotspots.jsonl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir := projectArg(args)
			cfg, err := setup(projectDir, verbose)
			if err != nil {
				return err
			}
			if format == "" {
				format = cfg.Output.Format
			}

			handles, err := loadHandles(projectDir, archive, cfg)
			if err != nil {
				return err
			}
			logger.Info("Analyzing project", logger.F("files", len(handles)))

			a := analyzer.NewAnalyzer(analyzer.Options{
				CacheSize: cfg.CacheSize,
				Progress: func(percent int, message string) {
					logger.Debug(message, logger.F("progress", percent))
				},
			})

			run := analyzer.NewRun()
			if err := a.Execute(cmd.Context(), run, handles, nil); err != nil {
				return err
			}
			result, _ := run.Result()
			logger.Info("Analysis finished",
				logger.F("score", result.Readiness.Score),
				logger.F("duration", run.Duration()))

			w, err := output.NewWriter(outputFile, format)
			if err != nil {
				return fmt.Errorf("failed to create output writer: %w", err)
			}
			defer w.Close()

			if err := w.WriteAnalysis(result); err != nil {
				return err
			}

			if hotspotsFile != "" {
				hw, err := output.NewWriter(hotspotsFile, output.FormatJSONL)
				if err != nil {
					return fmt.Errorf("failed to create hotspot writer: %w", err)
				}
				defer hw.Close()
				if err := hw.WriteReports(result.Hotspots); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&archive, "archive", "", "Read the project from a txtar archive")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, jsonl, yaml (default from config)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&hotspotsFile, "hotspots", "", "Write per-file hotspots as JSON lines")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

// routesCmd prints the route table of a project.
func routesCmd() *cobra.Command {
	var (
		archive string
		format  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "routes [path]",
		Short: "List routes with their React Router paths",
		Long: `List the routes derived from the pages and app directories, with
the equivalent React Router path, a complexity level and the manual
steps each route needs.

Examples:
  nextmig routes ./web
  nextmig routes --archive=shop.txtar --format=yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir := projectArg(args)
			cfg, err := setup(projectDir, verbose)
			if err != nil {
				return err
			}
			if format == "" {
				format = cfg.Output.Format
			}

			handles, err := loadHandles(projectDir, archive, cfg)
			if err != nil {
				return err
			}

			cache, err := source.NewCache(cfg.CacheSize)
			if err != nil {
				return err
			}
			outcomes := make([]models.FileOutcome, 0, len(handles))
			for _, h := range handles {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				outcomes = append(outcomes, source.Load(cmd.Context(), cache, h))
			}
			routing := analyzer.BuildRoutes(source.AllRecords(outcomes), framework.NextJS())

			w, err := output.NewWriter("", format)
			if err != nil {
				return err
			}
			if w.Format() == output.FormatText {
				output.PrintRoutes(os.Stdout, routing.Routes)
				return nil
			}
			return w.WriteValue(routing)
		},
	}

	cmd.Flags().StringVar(&archive, "archive", "", "Read the project from a txtar archive")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, jsonl, yaml (default from config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

// validateCmd probes every pipeline entry point.
func validateCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that every analysis stage is usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(".", false); err != nil {
				return err
			}

			w, err := output.NewWriter("", format)
			if err != nil {
				return err
			}
			result := analyzer.NewAnalyzer(analyzer.Options{}).Validate()

			if w.Format() == output.FormatText {
				output.PrintValidation(os.Stdout, result)
			} else if err := w.WriteValue(result); err != nil {
				return err
			}

			if !result.Valid {
				return fmt.Errorf("%w: %s", analyzer.ErrValidationFailed, strings.Join(result.Issues, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", output.FormatText, "Output format: text, json, jsonl, yaml")

	return cmd
}

// reportCmd summarizes hotspots written by analyze --hotspots.
func reportCmd() *cobra.Command {
	var (
		inputFile string
		topN      int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize hotspot results",
		Long: `Generate a summary from a JSONL hotspot file.

Examples:
  # Generate report from results file
  nextmig report --input=hotspots.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := loadReportsFromFile(inputFile)
			if err != nil {
				return fmt.Errorf("failed to load results: %w", err)
			}

			output.PrintSummary(os.Stdout, output.GenerateSummary(reports, topN))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input JSONL file with hotspot results")
	cmd.Flags().IntVar(&topN, "top", 10, "Number of top files to show")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// loadReportsFromFile loads file reports from a JSONL file.
func loadReportsFromFile(path string) ([]models.FileReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var reports []models.FileReport
	scanner := bufio.NewScanner(file)

	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var r models.FileReport
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			logger.Warn("Skipping malformed line", logger.F("error", err))
			continue
		}

		reports = append(reports, r)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}
