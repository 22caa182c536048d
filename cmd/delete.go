package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var deleteDestination string

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().StringVarP(&deleteDestination, "destination", "d", "", "Destination (s3 or glacier); default from config")
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete the most recent backup matching a name",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	e, backend, _, err := openEngine(ctx, deleteDestination)
	if err != nil {
		return err
	}
	defer backend.Close()

	key, err := e.Delete(ctx, args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Deleted %s\n", key)
	return nil
}
