// Command sync runs one fixtures, results or standings sync against the
// configured store and prints the run summary as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/club-fixtures/internal/app"
	"github.com/riskibarqy/club-fixtures/internal/config"
	"github.com/riskibarqy/club-fixtures/internal/domain/syncrun"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
)

func main() {
	flags := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ExitOnError)
	icsURL := flags.String("ics-url", "", "fetch only this calendar feed (fixtures only)")
	timeout := flags.Duration("timeout", 10*time.Minute, "abort the sync after this long")
	flags.Usage = func() { printUsage(flags) }
	_ = flags.Parse(os.Args[1:])

	if flags.NArg() != 1 {
		printUsage(flags)
		os.Exit(2)
	}
	kind, ok := syncrun.ParseKind(strings.ToLower(strings.TrimSpace(flags.Arg(0))))
	if !ok {
		printUsage(flags)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	// Log to stderr so stdout carries only the summary.
	logger := logging.New(cfg.LogLevel, os.Stderr).Named("sync")
	logging.SetDefault(logger)

	code := run(cfg, logger, kind, *icsURL, *timeout)
	_ = logger.Sync()
	os.Exit(code)
}

func run(cfg config.Config, logger *logging.Logger, kind syncrun.Kind, icsURL string, timeout time.Duration) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer a.Close()

	summary, err := a.Sync.Run(ctx, usecase.SyncRequest{
		Kind:        kind,
		Trigger:     syncrun.TriggerCLI,
		OverrideURL: icsURL,
	})
	if err != nil {
		logger.Error("sync failed", "kind", string(kind), "error", err)
		return 1
	}

	out, err := sonic.ConfigStd.MarshalIndent(summary, "", "  ")
	if err != nil {
		logger.Error("encode summary", "error", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

func printUsage(flags *flag.FlagSet) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s [flags] <fixtures|results|standings>\n", name)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s fixtures\n", name)
	fmt.Fprintf(os.Stderr, "  %s -ics-url webcal://ics.ecal.com/ecal-sub/<id>/RFU.ics fixtures\n", name)
	fmt.Fprintf(os.Stderr, "  %s results\n", name)
	fmt.Fprintln(os.Stderr, "flags:")
	flags.PrintDefaults()
}
