package cmd

import (
	"bufio"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ColdVault/internal/config"
)

func init() {
	rootCmd.AddCommand(configureRotationCmd)
}

var configureRotationCmd = &cobra.Command{
	Use:   "configure-rotation",
	Short: "Interactive wizard for the grandfather-father-son rotation policy",
	Long:  "Ask for the rotation windows (days, weeks, months) and the first day of the week, validate them, and save them to the config file. The rotate command refuses to run until this policy exists.",
	RunE:  runConfigureRotation,
}

func runConfigureRotation(cmd *cobra.Command, args []string) error {
	path := config.ResolveConfigPath()

	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{}
	}

	in := bufio.NewReader(cmd.InOrStdin())

	days, err := promptInt(cmd, in, "Number of days to keep every backup", cfg.Rotation.Days)
	if err != nil {
		return err
	}
	weeks, err := promptInt(cmd, in, "Number of weeks to keep one backup per week", cfg.Rotation.Weeks)
	if err != nil {
		return err
	}
	months, err := promptInt(cmd, in, "Number of months to keep one backup per month", cfg.Rotation.Months)
	if err != nil {
		return err
	}
	firstDay := promptLine(cmd, in, "First day of the week", orDefault(cfg.Rotation.FirstWeekDay, config.DefaultFirstWeekDay))
	if _, err := config.ParseWeekday(firstDay); err != nil {
		return err
	}

	cfg.Rotation = config.RotationConfig{
		Days:         days,
		Weeks:        weeks,
		Months:       months,
		FirstWeekDay: firstDay,
	}
	// Reject the policy now rather than at the first rotate run.
	if _, err := cfg.Rotation.Policy(); err != nil {
		return err
	}

	if err := config.Write(cfg, path); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}

func promptInt(cmd *cobra.Command, in *bufio.Reader, label string, current int) (int, error) {
	line := promptLine(cmd, in, label, strconv.Itoa(current))
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", label, line)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must be non-negative", label)
	}
	return n, nil
}
