package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oscope-dev/scope/internal/config"
	"github.com/oscope-dev/scope/internal/doctor"
	"github.com/oscope-dev/scope/internal/ux"
)

var (
	doctorOnlyGroups []string
	doctorNoCache    bool
	doctorCacheDir   string
	doctorYolo       bool
)

func init() {
	doctorCmd.PersistentFlags().StringSliceVar(&doctorOnlyGroups, "only", nil, "run only these groups (and their dependencies)")
	doctorCmd.PersistentFlags().BoolVar(&doctorNoCache, "no-cache", false, "disable the file cache (every check re-evaluates)")
	doctorCmd.PersistentFlags().StringVar(&doctorCacheDir, "cache-dir", "", "override the cache directory")
	doctorCmd.PersistentFlags().BoolVar(&doctorYolo, "yolo", false, "run fixes without prompting for confirmation")
	doctorCmd.AddCommand(doctorListCmd)
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run configured groups of checks and fixes",
	RunE:  runDoctor,
}

var doctorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured groups and actions without running them",
	RunE:  runDoctorList,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	writer := ux.NewWriter()
	progress := &ux.ConsoleProgress{Writer: writer}

	rt, err := config.Load(config.Options{
		OnlyGroups: doctorOnlyGroups,
		NoCache:    doctorNoCache,
		CacheDir:   doctorCacheDir,
		RunFix:     true,
	}, writer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	var interaction ux.UserInteraction = ux.NewTTYPrompt(writer)
	if doctorYolo {
		interaction = ux.AutoApprove{Writer: writer}
	}

	result, err := doctor.RunGroups(context.Background(), doctor.RunOptions{
		Groups:   rt.Groups,
		Desired:  rt.Desired,
		Env:      rt.ActionEnv(interaction, nil, doctorYolo),
		Notify:   writer,
		Progress: progress,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if err := rt.Cache.Persist(); err != nil {
		writer.Warn(fmt.Sprintf("failed to persist cache: %v", err))
	}

	reportResult(writer, result)
	os.Exit(result.ExitCode())
	return nil
}

func reportResult(writer *ux.Writer, result doctor.PathRunResult) {
	for _, g := range result.Groups {
		switch {
		case g.Skipped:
			writer.Dim(fmt.Sprintf("%s: skipped", g.Name))
		case g.Failed:
			writer.Error(fmt.Sprintf("%s: failed", g.Name))
			for _, ar := range g.ActionRuns {
				if !ar.Outcome.Passed() {
					writer.Error(fmt.Sprintf("  %s: %s", ar.Action.Name, ar.Outcome))
					if ar.Action.Fix != nil {
						if ar.Action.Fix.HelpText != "" {
							writer.Dim("    " + ar.Action.Fix.HelpText)
						}
						if ar.Action.Fix.HelpURL != "" {
							writer.Dim("    " + ar.Action.Fix.HelpURL)
						}
					}
				}
			}
		default:
			writer.Success(fmt.Sprintf("%s: ok", g.Name))
		}
	}
}

func runDoctorList(cmd *cobra.Command, args []string) error {
	writer := ux.NewWriter()
	rt, err := config.Load(config.Options{}, writer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	for _, g := range doctor.List(rt.Groups) {
		mode := "by-default"
		if !g.RunByDefault {
			mode = "when-required"
		}
		writer.Info(fmt.Sprintf("%s (%s)", g.Name, mode))
		for _, a := range g.Actions {
			writer.Dim("  - " + a)
		}
	}
	return nil
}
