package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var deleteOlderDestination string

func init() {
	rootCmd.AddCommand(deleteOlderThanCmd)
	deleteOlderThanCmd.Flags().StringVarP(&deleteOlderDestination, "destination", "d", "", "Destination (s3 or glacier); default from config")
}

var deleteOlderThanCmd = &cobra.Command{
	Use:   "delete-older-than <name> <interval>",
	Short: "Delete backups matching a name that are older than an interval",
	Long:  "Delete every backup matching the name whose age exceeds the interval. The interval is a concatenation of count+unit tokens: s (seconds), m (minutes), h (hours), D (days), W (weeks), M (30-day months), Y (365-day years). Example: coldvault delete-older-than mysql 1M3W.",
	Args:  cobra.ExactArgs(2),
	RunE:  runDeleteOlderThan,
}

func runDeleteOlderThan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	e, backend, _, err := openEngine(ctx, deleteOlderDestination)
	if err != nil {
		return err
	}
	defer backend.Close()

	deleted, err := e.DeleteOlderThan(ctx, args[0], args[1], time.Now())
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		cmd.Println("Nothing to delete")
		return nil
	}
	for _, key := range deleted {
		cmd.Printf("Deleted %s\n", key)
	}
	return nil
}
