package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ColdVault/internal/config"
)

func init() {
	rootCmd.AddCommand(configureCmd)
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactive wizard for AWS credentials and storage settings",
	Long:  "Ask for the AWS credentials, S3 bucket, Glacier vault and default destination, and write them to the config file (COLDVAULT_CONFIG or /etc/coldvault/config.yaml) with mode 0600. Existing values are offered as defaults.",
	RunE:  runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	path := config.ResolveConfigPath()

	// Start from the existing file when there is one, so re-running the
	// wizard edits rather than resets.
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{}
	}

	in := bufio.NewReader(cmd.InOrStdin())

	cfg.AWS.AccessKey = promptLine(cmd, in, "AWS access key", cfg.AWS.AccessKey)
	cfg.AWS.SecretKey = promptSecret(cmd, in, "AWS secret key", cfg.AWS.SecretKey)
	cfg.AWS.Region = promptLine(cmd, in, "Region", orDefault(cfg.AWS.Region, config.DefaultRegion))
	cfg.AWS.S3Bucket = promptLine(cmd, in, "S3 bucket", cfg.AWS.S3Bucket)
	cfg.AWS.S3Prefix = promptLine(cmd, in, "S3 key prefix (optional)", cfg.AWS.S3Prefix)
	cfg.AWS.GlacierVault = promptLine(cmd, in, "Glacier vault (optional)", cfg.AWS.GlacierVault)

	dest := promptLine(cmd, in, "Default destination (s3 or glacier)", orDefault(cfg.AWS.DefaultDestination, config.DestinationS3))
	if _, err := cfg.Destination(dest); err != nil {
		return err
	}
	cfg.AWS.DefaultDestination = dest

	if cfg.Inventory.Path == "" {
		cfg.Inventory.Path = config.DefaultInventoryPath
	}

	if err := config.Write(cfg, path); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}

func promptLine(cmd *cobra.Command, in *bufio.Reader, label, current string) string {
	if current != "" {
		cmd.Printf("%s [%s]: ", label, current)
	} else {
		cmd.Printf("%s: ", label)
	}
	line, err := in.ReadString('\n')
	if err != nil {
		return current
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	return line
}

// promptSecret reads without echo when attached to a terminal; in pipes and
// tests it falls back to a plain line read.
func promptSecret(cmd *cobra.Command, in *bufio.Reader, label, current string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(cmd, in, label, current)
	}

	if current != "" {
		cmd.Printf("%s [keep current]: ", label)
	} else {
		cmd.Printf("%s: ", label)
	}
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil || len(b) == 0 {
		return current
	}
	return string(b)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
