package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"speechcoach/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Save API credentials and coaching defaults",
	Long: `Config updates the persisted configuration file. Only flags that are
explicitly set are changed; everything else keeps its current value.`,
	RunE: runConfig,
}

var (
	cfgAPIKey      string
	cfgBaseURL     string
	cfgWPMMin      float64
	cfgWPMMax      float64
	cfgFillerRate  float64
	cfgPauseThresh float64
)

func init() {
	configCmd.Flags().StringVar(&cfgAPIKey, "api-key", "", "OpenAI API key")
	configCmd.Flags().StringVar(&cfgBaseURL, "base-url", "", "OpenAI-compatible API base URL")

	configCmd.Flags().Float64Var(&cfgWPMMin, "target-wpm-min", 0, "lower bound of the ideal speaking pace")
	configCmd.Flags().Float64Var(&cfgWPMMax, "target-wpm-max", 0, "upper bound of the ideal speaking pace")
	configCmd.Flags().Float64Var(&cfgFillerRate, "max-filler-rate", 0, "acceptable filler words per minute")
	configCmd.Flags().Float64Var(&cfgPauseThresh, "long-pause-threshold", 0, "pause length in seconds counted as a long pause")

	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.Credential.APIKey = cfgAPIKey
	}
	if flags.Changed("base-url") {
		cfg.Credential.BaseURL = cfgBaseURL
	}
	if flags.Changed("target-wpm-min") {
		cfg.Coaching.TargetWPMMin = cfgWPMMin
	}
	if flags.Changed("target-wpm-max") {
		cfg.Coaching.TargetWPMMax = cfgWPMMax
	}
	if flags.Changed("max-filler-rate") {
		cfg.Coaching.MaxFillerRatePerMinute = cfgFillerRate
	}
	if flags.Changed("long-pause-threshold") {
		cfg.Coaching.LongPauseThresholdSecs = cfgPauseThresh
	}

	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Println("configuration saved")
	return nil
}
