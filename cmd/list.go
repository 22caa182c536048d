package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var listDestination string
var listName string

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listDestination, "destination", "d", "", "Destination (s3 or glacier); default from config")
	listCmd.Flags().StringVarP(&listName, "name", "n", "", "Show only backups matching this name, with dates")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored backups",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	e, backend, _, err := openEngine(ctx, listDestination)
	if err != nil {
		return err
	}
	defer backend.Close()

	if listName != "" {
		records, err := e.Match(ctx, listName)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			cmd.Printf("No backups found for %q in %s\n", listName, e.Container())
			return nil
		}
		cmd.Printf("%s: %d generation(s) in %s, latest %s\n",
			listName, len(records), e.Container(), records[0].BackupDate.Format("2006-01-02 15:04:05"))
		for _, rec := range records {
			enc := ""
			if rec.Encrypted {
				enc = " (encrypted)"
			}
			cmd.Printf("  %s  %s%s\n", rec.BackupDate.Format("2006-01-02 15:04:05"), rec.Key, enc)
		}
		return nil
	}

	keys, err := e.List(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		cmd.Printf("No backups in %s\n", e.Container())
		return nil
	}
	for _, key := range keys {
		cmd.Println(key)
	}
	return nil
}
