package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liskovlint/liskov/formatter"
	"github.com/liskovlint/liskov/internal"
	tt "github.com/liskovlint/liskov/internal/types"
	"github.com/liskovlint/liskov/lint"
)

var (
	ignoreRules string
	ignorePaths string
	jsonOutput  bool
	outputPath  string
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Run the linter on the given files or directories",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			logger.Fatal("error: no files or directories specified")
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		runNormalLintProcess(ctx, logger, args)
	},
}

func init() {
	lintCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of lint rules to ignore")
	lintCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	lintCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	lintCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (when set with --json, results are written to this file)")
}

func runNormalLintProcess(ctx context.Context, logger *zap.Logger, paths []string) {
	engine, err := lint.New(".", cfgFile)
	if err != nil {
		logger.Fatal("failed to initialize lint engine", zap.Error(err))
	}

	if ignoreRules != "" {
		for _, rule := range strings.Split(ignoreRules, ",") {
			engine.IgnoreRule(strings.TrimSpace(rule))
		}
	}

	if ignorePaths != "" {
		for _, path := range strings.Split(ignorePaths, ",") {
			engine.IgnorePath(strings.TrimSpace(path))
		}
	}

	issues, err := lint.ProcessFiles(ctx, logger, engine, paths, lint.ProcessFile)
	if err != nil {
		logger.Fatal("error processing files", zap.Error(err))
	}

	printIssues(logger, issues, jsonOutput, outputPath)

	if len(issues) > 0 {
		os.Exit(1)
	}
}

func printIssues(logger *zap.Logger, issues []tt.Issue, isJSON bool, jsonOutput string) {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	if !isJSON {
		for _, filename := range sortedFiles {
			fileIssues := issuesByFile[filename]
			sourceCode, err := internal.ReadSourceCode(filename)
			if err != nil {
				logger.Error("error reading source file",
					zap.String("file", filename), zap.Error(err))
				continue
			}
			output := formatter.GenerateFormattedIssue(fileIssues, sourceCode)
			fmt.Println(output)
		}
		return
	}

	d, err := json.Marshal(issuesByFile)
	if err != nil {
		logger.Error("error marshalling issues to JSON", zap.Error(err))
		return
	}
	if jsonOutput == "" {
		fmt.Println(string(d))
		return
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		logger.Error("error writing JSON output", zap.Error(err))
	}
}
