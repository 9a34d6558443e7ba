package main

import (
	"flag"

	"github.com/spf13/cobra"

	"pmx-toolkit/internal/config"
)

var (
	configFile string
	outputDir  string
	workers    int

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:           "pmxtool",
	Short:         "Inspect, verify and edit PMX model files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog reads its settings from the standard flag set; the values
		// were already filled in through pflag.
		if err := flag.CommandLine.Parse(nil); err != nil {
			return err
		}
		return loadConfig(config.Flags{OutputDir: outputDir, Workers: workers})
	},
}

func loadConfig(flags config.Flags) error {
	cfg = config.Config{}
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
	}
	cfg.Resolve(flags)
	return nil
}

func init() {
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "", "output directory for reports (default: current directory)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "number of worker goroutines (default: NumCPU)")
}
