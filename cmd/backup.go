package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"ColdVault/internal/engine"
)

var backupDestination string
var backupPassword string
var backupPrompt bool

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().StringVarP(&backupDestination, "destination", "d", "", "Destination (s3 or glacier); default from config")
	backupCmd.Flags().StringVar(&backupPassword, "password", "", "Encryption password (empty disables encryption)")
	backupCmd.Flags().BoolVar(&backupPrompt, "prompt", false, "Ask for the encryption password interactively")
}

var backupCmd = &cobra.Command{
	Use:   "backup <path>",
	Short: "Compress, optionally encrypt, and upload a file or directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackup,
}

func runBackup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	e, backend, _, err := openEngine(ctx, backupDestination)
	if err != nil {
		return err
	}
	defer backend.Close()

	res, err := e.Backup(ctx, args[0], engine.BackupOptions{
		Password: backupPassword,
		Prompt:   backupPrompt,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Stored %s in %s (%d bytes", res.StoredKey, e.Container(), res.Size)
	if res.Encrypted {
		cmd.Printf(", encrypted")
	}
	cmd.Printf(")\n")
	return nil
}
