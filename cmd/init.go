package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	tt "github.com/liskovlint/liskov/internal/types"
	"github.com/liskovlint/liskov/lint"
)

const configurationFile = ".liskov.yaml"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + configurationFile + " configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(configurationFile); err == nil {
			logger.Fatal(configurationFile + " already exists")
		}

		config := lint.Config{
			Name: "liskov",
			Rules: map[string]tt.ConfigRule{
				"substitutability": {
					Severity: tt.SeverityError,
				},
				"high-cyclomatic-complexity": {
					Severity:  tt.SeverityOff,
					Threshold: 10,
				},
			},
		}

		d, err := yaml.Marshal(&config)
		if err != nil {
			logger.Fatal("failed to marshal configuration")
		}

		if err := os.WriteFile(configurationFile, d, 0o644); err != nil {
			logger.Fatal("failed to write " + configurationFile)
		}

		fmt.Println("wrote " + configurationFile)
	},
}
