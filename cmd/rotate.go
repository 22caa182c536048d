package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var rotateDestination string

func init() {
	rootCmd.AddCommand(rotateCmd)
	rotateCmd.Flags().StringVarP(&rotateDestination, "destination", "d", "", "Destination (s3 or glacier); default from config")
}

var rotateCmd = &cobra.Command{
	Use:   "rotate <name>",
	Short: "Apply the configured grandfather-father-son rotation to a backup set",
	Long:  "Thin out the backups matching the name per the configured rotation policy: keep everything within the daily window, one backup per calendar week within the weekly window, and one per month within the monthly window. Configure the policy with coldvault configure-rotation.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRotate,
}

func runRotate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	e, backend, cfg, err := openEngine(ctx, rotateDestination)
	if err != nil {
		return err
	}
	defer backend.Close()

	policy, err := cfg.Rotation.Policy()
	if err != nil {
		return err
	}

	deleted, err := e.Rotate(ctx, args[0], policy, time.Now())
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		cmd.Println("Nothing to rotate out")
		return nil
	}
	for _, key := range deleted {
		cmd.Printf("Deleted %s\n", key)
	}
	return nil
}
