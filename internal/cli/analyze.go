package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oscope-dev/scope/internal/analyze"
	"github.com/oscope-dev/scope/internal/config"
	"github.com/oscope-dev/scope/internal/ux"
)

var (
	analyzeFile string
	analyzeYolo bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "read input from this file instead of stdin")
	analyzeCmd.Flags().BoolVar(&analyzeYolo, "yolo", false, "run known-error fixes without prompting for confirmation")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Scan command output or a log file for known error patterns",
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	writer := ux.NewWriter()
	rt, err := config.Load(config.Options{}, writer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	src := analyze.Source{FilePath: analyzeFile, Stdin: analyzeFile == ""}
	r, err := src.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	defer r.Close()

	var interaction ux.UserInteraction = ux.NewTTYPrompt(writer)
	if analyzeYolo {
		interaction = ux.AutoApprove{Writer: writer}
	}

	result, err := analyze.Analyze(context.Background(), r, rt.KnownErrors, analyze.Env{
		WorkingDir:  rt.WorkingDir,
		Path:        os.Getenv("PATH"),
		ExtraEnv:    map[string]string{"SCOPE_RUN_ID": rt.RunID},
		Interaction: interaction,
		Yolo:        analyzeYolo,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	switch result.Status {
	case analyze.NoKnownErrorsFound:
		writer.Info("no known errors found")
	default:
		for _, m := range result.Matches {
			writer.Warn(fmt.Sprintf("%s: %s", m.KnownError.Metadata.Name, m.Line))
		}
	}

	os.Exit(result.Status.ExitCode())
	return nil
}
