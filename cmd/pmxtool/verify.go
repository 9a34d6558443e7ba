package main

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"pmx-toolkit/internal/batch"
)

var verifyStrict bool

var verifyCmd = &cobra.Command{
	Use:   "verify PATH...",
	Short: "Round-trip every model and report files that do not survive",
	Long: "Decodes, re-encodes and re-decodes each file. Directories are searched for .pmx files.\n" +
		"A JSON report is written to the output directory.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if verifyStrict {
			cfg.Strict = true
		}
		paths, err := batch.ExpandPaths(args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(paths) == 0 {
			fmt.Fprintln(out, "No models to verify.")
			return nil
		}
		glog.Infof("verifying %d files with %d workers", len(paths), cfg.Workers)

		results := batch.Run(batch.Config{Workers: cfg.Workers, Strict: cfg.Strict}, paths)
		s := batch.Summarize(results)
		fmt.Fprintf(out, "Verified: %d/%d (%d byte-identical)\n", s.Succeeded, s.Total, s.Identical)

		if s.Failed > 0 {
			fmt.Fprintf(out, "\nFailed (%d):\n", s.Failed)
			shown := 0
			for _, r := range results {
				if r.Success {
					continue
				}
				if shown == 20 {
					fmt.Fprintf(out, "  ... and %d more\n", s.Failed-shown)
					break
				}
				fmt.Fprintf(out, "  %s: %s\n", r.Path, r.Error)
				shown++
			}
		}

		report := cfg.ReportPath()
		if err := batch.WriteReport(report, results); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "Report: %s\n", report)

		if s.Failed > 0 {
			return fmt.Errorf("%d of %d files failed verification", s.Failed, s.Total)
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyStrict, "strict", false, "fail files with decode warnings or non-identical output")
	rootCmd.AddCommand(verifyCmd)
}
