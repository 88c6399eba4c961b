package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Afrawles/teamdash/internal/config"
	"github.com/Afrawles/teamdash/internal/teamdash"
)

var (
	output     string
	formats    string
	months     int
	rosterFlag string
	insecure   bool
	listenAddr string
	noPrefetch bool
	recipients string
)

var rootCmd = &cobra.Command{
	Use:   "teamdash",
	Short: "Team performance dashboard and contribution reports",
	Long:  `Teamdash fetches team activity from the reporting API and aggregates per-member contribution counts against the roster.`,
	Run:   generateReport,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interactive dashboard server",
	Long:  `Serves the dashboard with weekly/monthly summary tables and charts, with on-demand data refresh.`,
	Run:   runServe,
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Email weekly contribution summaries to roster members",
	Run:   runNotify,
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(notifyCmd)

	rootCmd.PersistentFlags().IntVar(&months, "months", 0, "How many months back to fetch (default from env, 2)")
	rootCmd.PersistentFlags().StringVar(&rosterFlag, "roster", "", "Comma-separated roster display names (overrides default team)")
	rootCmd.PersistentFlags().BoolVar(&insecure, "insecure", false, "Skip TLS certificate verification (known weakening, off by default)")

	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Output directory for reports")
	rootCmd.Flags().StringVar(&formats, "format", "", "Comma-separated export formats: json, html, csv, excel")

	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from env, :8080)")
	serveCmd.Flags().BoolVar(&noPrefetch, "no-prefetch", false, "Start without fetching data; use the refresh action instead")

	notifyCmd.Flags().StringVar(&recipients, "recipients", "", "Comma-separated member names to notify (default: whole roster)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}

	if output != "" {
		cfg.Output.Directory = output
	}
	if formats != "" {
		cfg.Output.Formats = parseCommaList(formats)
	}
	if months > 0 {
		cfg.MonthsBack = months
	}
	if rosterFlag != "" {
		cfg.Roster.Members = parseCommaList(rosterFlag)
	}
	if insecure {
		cfg.API.InsecureSkipVerify = true
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func generateReport(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	app := teamdash.New(cfg)

	bar := newSpinner("Fetching activity records")
	ds, err := app.Fetch(context.Background())
	finishBar(bar)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nFetch failed: %v\n", err)
		os.Exit(1)
	}

	if ds.Len() == 0 {
		fmt.Println("\nNo activity records found for this period")
		return
	}
	fmt.Printf("Fetched %d records\n\n", ds.Len())

	rep, err := app.BuildLatestReport(ds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Report failed: %v\n", err)
		os.Exit(1)
	}

	printSummaryTable(rep)

	exportBar := newSpinner("Exporting reports")
	err = app.Export(rep)
	finishBar(exportBar)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nExport failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nReports saved to %s/\n", cfg.Output.Directory)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	app := teamdash.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx, !noPrefetch); err != nil {
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		os.Exit(1)
	}
}

func runNotify(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	app := teamdash.New(cfg)

	bar := newSpinner("Sending summaries")
	err = app.Notify(context.Background(), parseCommaList(recipients))
	finishBar(bar)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nAll summaries sent")
}
