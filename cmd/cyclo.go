package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tt "github.com/liskovlint/liskov/internal/types"
	"github.com/liskovlint/liskov/lint"
)

var (
	threshold   int
	cycloJSON   bool
	cycloOutput string
)

var cycloCmd = &cobra.Command{
	Use:   "cyclo [paths...]",
	Short: "Report functions whose cyclomatic complexity exceeds the threshold",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			logger.Fatal("error: no files or directories specified")
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		issues, err := lint.ProcessFiles(ctx, logger, nil, args,
			func(_ lint.LintEngine, path string) ([]tt.Issue, error) {
				return lint.ProcessCyclomaticComplexity(path, threshold)
			})
		if err != nil {
			logger.Fatal("error processing files", zap.Error(err))
		}

		printIssues(logger, issues, cycloJSON, cycloOutput)
	},
}

func init() {
	cycloCmd.Flags().IntVar(&threshold, "threshold", 10, "Cyclomatic complexity threshold")
	cycloCmd.Flags().BoolVar(&cycloJSON, "json", false, "Output results in JSON format")
	cycloCmd.Flags().StringVarP(&cycloOutput, "output", "o", "", "Output path (when set with --json, results are written to this file)")
}
