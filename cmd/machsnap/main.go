package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-tangra/go-tangra-machsnap/internal/config"
	"github.com/go-tangra/go-tangra-machsnap/internal/convert"
	"github.com/go-tangra/go-tangra-machsnap/internal/probe"
	"github.com/go-tangra/go-tangra-machsnap/internal/store"
)

var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

var (
	cfgFile    string
	outputFile string
	purgeDays  int
)

var rootCmd = &cobra.Command{
	Use:   "machsnap",
	Short: "machsnap - one-shot machine snapshot probe",
	Long: `machsnap probes the local host for static identity and capacity facts
(OS, processor, memory, hardware identifiers, a thermal reading) and prints
them as a single JSON snapshot.

Run without a subcommand to probe and print (equivalent to 'probe').`,
	RunE: runProbe,
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe the host and print the snapshot as JSON",
	RunE:  runProbe,
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Probe the host and append the snapshot to the local history",
	RunE:  runSave,
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the most recently stored snapshot for this host",
	RunE:  runLatest,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored snapshots",
	RunE:  runHistory,
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Purge stored snapshots older than the specified number of days",
	RunE:  runPurge,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("machsnap %s (commit: %s, built: %s)\n", version, commitHash, buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/machsnap.yaml)")
	rootCmd.PersistentFlags().String("database", "", "SQLite history path (default machsnap.db)")

	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write JSON output to file instead of stdout")
	probeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write JSON output to file instead of stdout")

	historyCmd.Flags().String("hostname", "", "filter by hostname")
	historyCmd.Flags().Int("page", 1, "page number")
	historyCmd.Flags().Int("page-size", 50, "records per page")

	purgeCmd.Flags().IntVar(&purgeDays, "days", 90, "purge records older than this many days")

	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// CLI flag overrides.
	if v, _ := cmd.Flags().GetString("database"); v != "" {
		cfg.DatabasePath = v
	}
	return cfg, nil
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	snap := probe.Collect()

	w := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	if cfg.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if outputFile != "" {
		fmt.Fprintf(os.Stderr, "snapshot written to %s\n", outputFile)
	}
	return nil
}

func runSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	snap := probe.Collect()

	rec, err := convert.SnapshotToRecord(snap)
	if err != nil {
		return err
	}

	db, err := store.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	id, storedAt, err := db.Insert(cmd.Context(), rec)
	if err != nil {
		return err
	}

	fmt.Printf("Snapshot %s stored as record %d at %s\n", snap.SnapshotID, id, storedAt.Format(time.RFC3339))
	return nil
}

func runLatest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := store.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	hostname, _ := os.Hostname()
	rec, err := db.GetLatestByHostname(cmd.Context(), hostname)
	if err != nil {
		return fmt.Errorf("no stored snapshot for %s: %w", hostname, err)
	}

	snap, err := convert.RecordToSnapshot(rec)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if cfg.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(snap)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := store.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	filter := store.ListFilter{}
	filter.Hostname, _ = cmd.Flags().GetString("hostname")
	filter.Page, _ = cmd.Flags().GetInt("page")
	filter.PageSize, _ = cmd.Flags().GetInt("page-size")

	records, total, err := db.List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	for _, rec := range records {
		fmt.Printf("%-6d %-24s %-20s %s\n", rec.ID, rec.Hostname, rec.CollectedAt.Format(time.RFC3339), rec.OSName)
	}
	fmt.Printf("%d of %d record(s)\n", len(records), total)
	return nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := store.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	n, err := db.Purge(context.Background(), time.Duration(purgeDays)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("purge: %w", err)
	}

	fmt.Printf("Purged %d records older than %d days\n", n, purgeDays)
	return nil
}
