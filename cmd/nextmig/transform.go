package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rg0now/next-migration-survey/pkg/analyzer"
	"github.com/rg0now/next-migration-survey/pkg/config"
	"github.com/rg0now/next-migration-survey/pkg/logger"
	"github.com/rg0now/next-migration-survey/pkg/models"
	"github.com/rg0now/next-migration-survey/pkg/output"
	"github.com/rg0now/next-migration-survey/pkg/transform"
)

// target is one file to transform: the name shown to the user and the
// location on disk.
type target struct {
	name string
	disk string
}

// collectTargets expands directories into their script and typed files.
func collectTargets(args []string, cfg *config.Config) ([]target, error) {
	var targets []target
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			targets = append(targets, target{name: filepath.ToSlash(arg), disk: arg})
			continue
		}

		handles, err := loadHandles(arg, "", cfg)
		if err != nil {
			return nil, err
		}
		for _, h := range handles {
			if !analyzer.IsCodeFile(h.Path()) {
				continue
			}
			targets = append(targets, target{
				name: h.Path(),
				disk: filepath.Join(arg, filepath.FromSlash(h.Path())),
			})
		}
	}
	return targets, nil
}

// transformCmd rewrites source files with the rule engine.
func transformCmd() *cobra.Command {
	var (
		showDiff   bool
		write      bool
		jsonl      bool
		only       string
		outputFile string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "transform <file|dir>...",
		Short: "Rewrite Next.js idioms toward React Router",
		Long: `Run the transform engine over files or directories. By default the
changes and warnings of each file are listed; nothing is written back
unless --write is given.

Examples:
  # Preview the rewrite of one page as a unified diff
  nextmig transform pages/index.tsx --diff

  # Rewrite a whole tree in place
  nextmig transform ./pages --write

  # Emit one JSON result per file
  nextmig transform ./app --jsonl --output=transform.jsonl

  # Apply only the data-fetching rules
  nextmig transform ./pages --only=data-fetching --diff`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(".", verbose)
			if err != nil {
				return err
			}

			targets, err := collectTargets(args, cfg)
			if err != nil {
				return err
			}

			var w *output.Writer
			if jsonl {
				w, err = output.NewWriter(outputFile, output.FormatJSONL)
				if err != nil {
					return fmt.Errorf("failed to create output writer: %w", err)
				}
				defer w.Close()
			}

			engine := transform.NewEngine()
			if only != "" {
				rules := transform.ByCategory(only)
				if len(rules) == 0 {
					return fmt.Errorf("no transform rules in category %q", only)
				}
				engine = transform.NewEngineWithRules(rules)
			}
			coverage := transform.NewCoverage(engine.Rules())

			for _, t := range targets {
				if err := cmd.Context().Err(); err != nil {
					return err
				}

				data, err := os.ReadFile(t.disk)
				if err != nil {
					logger.Warn("Skipping file", logger.F("path", t.name), logger.F("error", err))
					continue
				}
				code := string(data)
				result := engine.TransformFile(t.name, code)
				coverage.Record(t.name, result)

				switch {
				case w != nil:
					if err := w.WriteTransform(result); err != nil {
						return err
					}
				case showDiff:
					patch, err := output.UnifiedDiff(t.name, code, result.TransformedCode, cfg.Output.DiffContext)
					if err != nil {
						return err
					}
					fmt.Fprint(os.Stdout, patch)
					for _, warning := range result.Warnings {
						logger.Warn(warning, logger.F("path", t.name))
					}
				default:
					output.PrintTransform(os.Stdout, result)
				}

				if write && result.TransformedCode != code {
					if err := writeBack(t.disk, result.TransformedCode); err != nil {
						return err
					}
					logger.Info("Rewrote file", logger.F("path", t.name), logger.F("rules", len(result.AppliedTransformations)))
				}
			}

			output.PrintCoverage(os.Stderr, coverage.Report())
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "Print a unified diff per changed file")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write transformed code back to the files")
	cmd.Flags().BoolVar(&jsonl, "jsonl", false, "Emit one JSON result per file")
	cmd.Flags().StringVar(&only, "only", "", "Apply only the rules of one category")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for --jsonl (default: stdout)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

// writeBack replaces a file's content and keeps its mode.
func writeBack(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// rulesCmd lists the transform rule table.
func rulesCmd() *cobra.Command {
	var (
		category   string
		complexity string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List transform rules",
		Long: `List the transform rules in the order they are applied.

Examples:
  nextmig rules --category=data-fetching
  nextmig rules --complexity=complex --format=json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := transform.Rules()
			if category != "" {
				rules = transform.ByCategory(category)
			}

			infos := make([]transform.RuleInfo, 0, len(rules))
			for _, r := range rules {
				if complexity != "" && r.Complexity != complexity {
					continue
				}
				infos = append(infos, r.Info())
			}

			w, err := output.NewWriter("", format)
			if err != nil {
				return err
			}
			if w.Format() == output.FormatText {
				output.PrintRules(os.Stdout, infos)
				return nil
			}
			return w.WriteValue(infos)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", fmt.Sprintf("Only rules of this category (%s, %s, %s, %s, %s, %s)",
		models.RuleCategoryRouting, models.RuleCategoryComponent, models.RuleCategoryAPI,
		models.RuleCategoryDataFetching, models.RuleCategoryConfig, models.RuleCategoryGeneral))
	cmd.Flags().StringVar(&complexity, "complexity", "", fmt.Sprintf("Only rules of this complexity (%s, %s, %s)",
		models.ComplexitySimple, models.ComplexityMedium, models.ComplexityComplex))
	cmd.Flags().StringVarP(&format, "format", "f", output.FormatText, "Output format: text, json, jsonl, yaml")

	return cmd
}
