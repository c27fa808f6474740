package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hirewave/placement-portal/internal/config"
	"hirewave/placement-portal/internal/services"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume.pdf>",
	Short: "Extract and analyze a resume, printing the analysis as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		defer log.Sync()

		cfg := config.Load(nil)
		resumes := services.NewResumeService(nil, nil, services.NewTextExtractor(), newAnalyzer(cmd.Context(), cfg, log), log)

		analysis, err := resumes.AnalyzeFile(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("analyzing %s: %w", args[0], err)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(analysis)
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Print the analyzer candidate chain in the order it is tried",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := config.Load(nil)
		analyzer := services.NewResumeAnalyzer(services.NewGeminiProviders(nil, cfg.Gemini.Models), nil, cfg.Gemini.AttemptTimeout, nil)
		for i, name := range analyzer.Candidates() {
			fmt.Printf("%d. %s\n", i+1, name)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(modelsCmd)
}
