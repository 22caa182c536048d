package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"ColdVault/internal/engine"
	"ColdVault/internal/storage"
)

var restoreDestination string
var restorePassword string
var restoreTarget string
var restoreCheck bool

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().StringVarP(&restoreDestination, "destination", "d", "", "Destination (s3 or glacier); default from config")
	restoreCmd.Flags().StringVar(&restorePassword, "password", "", "Decryption password (prompted if needed and omitted)")
	restoreCmd.Flags().StringVarP(&restoreTarget, "target", "t", "", "Directory to extract into (default: current directory)")
	restoreCmd.Flags().BoolVar(&restoreCheck, "check", false, "Only report whether a pending Glacier retrieval is ready")
}

var restoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Download and extract the most recent backup matching a name",
	Long:  "Download and extract the most recent backup whose stored key starts with the given name. On Glacier the first run starts a retrieval job; re-run the command (or use --check) once the job completes, typically a few hours later.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := args[0]

	e, backend, _, err := openEngine(ctx, restoreDestination)
	if err != nil {
		return err
	}
	defer backend.Close()

	if restoreCheck {
		return runRestoreCheck(ctx, cmd, e, name)
	}

	rec, err := e.Restore(ctx, name, engine.RestoreOptions{
		Password:  restorePassword,
		Prompt:    true,
		TargetDir: restoreTarget,
	})
	if pending, ok := engine.IsRetrievalPending(err); ok {
		if pending.Requested {
			cmd.Printf("Retrieval of %s requested (job %s). Re-run this command once the job completes.\n", pending.Key, pending.JobID)
		} else {
			cmd.Printf("Retrieval of %s still pending (job %s). Try again later.\n", pending.Key, pending.JobID)
		}
		return nil
	}
	if err != nil {
		return err
	}

	cmd.Printf("Restored %s (backup of %s)\n", rec.Key, rec.BackupDate.Format("2006-01-02 15:04:05"))
	return nil
}

func runRestoreCheck(ctx context.Context, cmd *cobra.Command, e *engine.Engine, name string) error {
	status, rec, err := e.CheckRestore(ctx, name)
	if err != nil {
		return err
	}
	switch status {
	case storage.RetrievalReady:
		cmd.Printf("%s is ready to restore\n", rec.Key)
	case storage.RetrievalPending:
		cmd.Printf("Retrieval of %s still pending\n", rec.Key)
	default:
		cmd.Printf("No retrieval job for %s; run restore to start one\n", rec.Key)
	}
	return nil
}
