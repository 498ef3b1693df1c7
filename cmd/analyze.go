package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/repodocs/internal/analysis"
	"github.com/ziadkadry99/repodocs/internal/docgen"
	"github.com/ziadkadry99/repodocs/internal/fetcher"
	"github.com/ziadkadry99/repodocs/internal/llm"
	"github.com/ziadkadry99/repodocs/internal/progress"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <repo-url | path>",
	Short: "Analyze a repository and optionally generate its README",
	Long: `Clones the repository (or reads a local directory with --local), prints the
structured analysis and, with --generate, the generated documentation.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("branch", fetcher.DefaultBranch, "branch to clone")
	analyzeCmd.Flags().Bool("local", false, "analyze a local directory instead of cloning")
	analyzeCmd.Flags().Bool("json", false, "print the analysis as JSON")
	analyzeCmd.Flags().Bool("generate", false, "generate documentation from the analysis")
	analyzeCmd.Flags().Bool("dry-run", false, "with --generate, estimate prompt size and cost without calling the LLM")
	analyzeCmd.Flags().StringP("output", "o", "", "write generated documentation to this file instead of stdout")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	branch, _ := cmd.Flags().GetString("branch")
	local, _ := cmd.Flags().GetBool("local")
	asJSON, _ := cmd.Flags().GetBool("json")
	generate, _ := cmd.Flags().GetBool("generate")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	output, _ := cmd.Flags().GetString("output")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer := newAnalyzer(cfg, newFetcher(cfg, logger), logger)
	reporter := progress.NewReporter(os.Stderr)
	observe := analysis.WithObserver(reporter)

	target := args[0]
	var result *analysis.AnalysisResult
	if local {
		abs, err := filepath.Abs(target)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", target, err)
		}
		result, err = analyzer.AnalyzeDirectory(ctx, filepath.Base(abs), abs, observe)
		reporter.Finish()
		if err != nil {
			return err
		}
	} else {
		result, err = analyzer.AnalyzeRepository(ctx, target, branch, observe)
		reporter.Finish()
		if err != nil {
			return fmt.Errorf("%s: %w", analysis.ErrorKind(err), err)
		}
	}

	if !generate {
		if asJSON {
			return printJSON(result)
		}
		printSummary(result)
		return nil
	}

	if dryRun {
		return printEstimate(cfg.Model, cfg.MaxTokens, result)
	}

	gen, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}
	doc, err := gen.Generate(ctx, result)
	if err != nil {
		return fmt.Errorf("generating documentation: %w", err)
	}

	if asJSON {
		return printJSON(struct {
			Analysis *analysis.AnalysisResult `json:"analysis"`
			Document *docgen.Document         `json:"document"`
		}{result, doc})
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(doc.Markdown), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%s", output, doc.Source)
		if doc.Source == docgen.SourceLLM {
			fmt.Fprintf(os.Stderr, ", %s, %d+%d tokens, ~$%.4f", doc.Model, doc.InputTokens, doc.OutputTokens,
				llm.EstimateCost(doc.Model, doc.InputTokens, doc.OutputTokens))
		}
		fmt.Fprintln(os.Stderr, ")")
		return nil
	}
	fmt.Println(doc.Markdown)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummary(r *analysis.AnalysisResult) {
	fmt.Printf("Repository: %s\n", r.Repository.Name)
	if r.Repository.URL != "" {
		fmt.Printf("URL:        %s (%s)\n", r.Repository.URL, r.Repository.Branch)
	}
	fmt.Printf("Files:      %d (%d code, ~%d lines)\n", r.Metrics.TotalFiles, r.Metrics.CodeFiles, r.Metrics.EstimatedLinesOfCode)

	langs := make([]string, len(r.Languages))
	for i, l := range r.Languages {
		langs[i] = fmt.Sprintf("%s (%d)", l.Language, l.FileCount)
	}
	fmt.Printf("Languages:  %s\n", listOrDash(langs))
	fmt.Printf("Frameworks: %s\n", listOrDash(r.Frameworks))
	fmt.Printf("Deps:       %d via %s\n", r.Dependencies.Total, r.Dependencies.PackageManager)
	fmt.Printf("Entry:      %s\n", listOrDash(r.EntryPoints))
	if r.Readme != nil {
		fmt.Printf("README:     %s (%d chars", r.Readme.Filename, r.Readme.FullLength)
		if r.Readme.Truncated {
			fmt.Print(", truncated")
		}
		fmt.Println(")")
	}
	for _, s := range r.APISpecs {
		fmt.Printf("API spec:   %s (%s)\n", s.File, s.Type)
	}
	for _, w := range r.Warnings {
		fmt.Printf("Warning:    %s\n", w)
	}
	fmt.Println()
	fmt.Print(r.Structure)
}

// printEstimate reports the prompt size and worst-case cost of generation.
func printEstimate(model string, maxTokens int, r *analysis.AnalysisResult) error {
	input := llm.EstimateTokens(docgen.BuildPrompt(r))
	fmt.Println("=== Generation Estimate (dry run) ===")
	fmt.Printf("Model:         %s\n", model)
	fmt.Printf("Prompt tokens: ~%d\n", input)
	fmt.Printf("Max output:    %d\n", maxTokens)
	if cost := llm.EstimateCost(model, input, maxTokens); cost > 0 {
		fmt.Printf("Cost (max):    ~$%.4f\n", cost)
	} else {
		fmt.Println("Cost:          unknown for this model")
	}
	return nil
}

func listOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
