package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"ColdVault/internal/config"
	"ColdVault/internal/inventory"
	"ColdVault/internal/storage"
)

var inventoryShowRemote bool

func init() {
	rootCmd.AddCommand(inventoryCmd)
	inventoryCmd.AddCommand(inventoryShowCmd)
	inventoryCmd.AddCommand(inventoryBackupCmd)
	inventoryCmd.AddCommand(inventoryRestoreCmd)
	inventoryShowCmd.Flags().BoolVar(&inventoryShowRemote, "remote", false, "Show the S3 checkpoint copy instead of the local catalog")
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Manage the local Glacier shadow inventory",
	Long:  "The shadow inventory is the local catalog of Glacier archives: the vault cannot be listed synchronously, so this catalog is the sole record of what is stored there. Checkpoint it to S3 with 'inventory backup' so it survives loss of this host, and pull the last checkpoint back with 'inventory restore'.",
}

var inventoryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the shadow inventory (local catalog, or the S3 checkpoint with --remote)",
	RunE:  runInventoryShow,
}

var inventoryBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Checkpoint the shadow inventory to S3",
	RunE:  runInventoryBackup,
}

var inventoryRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the shadow inventory with the last S3 checkpoint",
	Long:  "Replace the local shadow inventory wholesale with the last checkpoint stored in S3. Local entries not present in the checkpoint are lost; use this for disaster recovery, not routine sync.",
	RunE:  runInventoryRestore,
}

// openGlacier builds the cold backend regardless of the configured default
// destination; the inventory commands only make sense against Glacier.
func openGlacier(ctx context.Context) (*storage.GlacierBackend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateFor(config.DestinationGlacier); err != nil {
		return nil, err
	}
	return openGlacierBackend(ctx, cfg)
}

func runInventoryShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if inventoryShowRemote {
		return runInventoryShowRemote(ctx, cmd)
	}

	backend, err := openGlacier(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	printEntries(cmd, backend.Entries())
	return nil
}

// runInventoryShowRemote reads the S3 checkpoint directly; it needs neither
// the Glacier client nor the local catalog lock.
func runInventoryShowRemote(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateFor(config.DestinationS3); err != nil {
		return err
	}
	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return err
	}
	entries, err := inventory.FetchRemote(ctx, client)
	if err != nil {
		return err
	}
	printEntries(cmd, entries)
	return nil
}

func printEntries(cmd *cobra.Command, entries map[string]inventory.Entry) {
	if len(entries) == 0 {
		cmd.Println("Inventory is empty")
		return
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		e := entries[key]
		cmd.Printf("%s\n  archive id: %s\n  size: %d  uploaded: %s\n",
			key, e.ArchiveID, e.Size, e.UploadedAt.Format("2006-01-02 15:04:05"))
	}
}

func runInventoryBackup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	backend, err := openGlacier(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := backend.SyncInventory(ctx); err != nil {
		return fmt.Errorf("inventory backup: %w", err)
	}
	cmd.Println("Inventory checkpointed to S3")
	return nil
}

func runInventoryRestore(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	backend, err := openGlacier(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := backend.RestoreInventory(ctx); err != nil {
		return fmt.Errorf("inventory restore: %w", err)
	}
	cmd.Println("Inventory restored from the last S3 checkpoint")
	return nil
}
