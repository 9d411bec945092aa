// Command ledgerctl runs ledger maintenance tasks against the configured store.
//
// Usage:
//
//	ledgerctl recalc
//	ledgerctl process-due [-date YYYY-MM-DD] [-group ID]
//	ledgerctl wake-token [-subject NAME] [-ttl DURATION]
//	ledgerctl hash-key -key KEY
//
// Configuration is read from the environment, as for the server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmynk/ledgerly/internal/app"
	"github.com/mmynk/ledgerly/internal/auth"
	"github.com/mmynk/ledgerly/internal/config"
	"github.com/mmynk/ledgerly/internal/models"
	"github.com/mmynk/ledgerly/pkg/logging"
)

var errUsage = errors.New("usage: ledgerctl <recalc|process-due|wake-token|hash-key> [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "ledgerctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case "recalc":
		return recalc(ctx, args, out)
	case "process-due":
		return processDue(ctx, args, out)
	case "wake-token":
		return wakeToken(args, out)
	case "hash-key":
		return hashKey(args, out)
	default:
		return fmt.Errorf("unknown command %q\n%w", cmd, errUsage)
	}
}

func load() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func recalc(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("recalc", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := load()
	if err != nil {
		return err
	}
	a, err := app.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Ledger.RecalculateAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "balances recalculated")
	return nil
}

func processDue(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("process-due", flag.ContinueOnError)
	date := fs.String("date", "", "process occurrences due on or before this date (YYYY-MM-DD, default today)")
	group := fs.String("group", "", "only this group; pass -group= for personal payments")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var groupID *string
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "group" {
			groupID = group
		}
	})

	cfg, err := load()
	if err != nil {
		return err
	}
	a, err := app.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	asOf := a.Scheduler.Today()
	if *date != "" {
		if asOf, err = models.ParseDate(*date); err != nil {
			return fmt.Errorf("invalid -date %q: %w", *date, err)
		}
	}

	created, err := a.Scheduler.ProcessDuePayments(ctx, asOf, groupID)
	for _, e := range created {
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", e.Date.Format(models.DateLayout), e.ID, e.Amount.StringFixed(2), e.Memo)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created %d expenses as of %s\n", len(created), asOf.Format(models.DateLayout))
	return nil
}

func wakeToken(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("wake-token", flag.ContinueOnError)
	subject := fs.String("subject", "ledgerctl", "token subject")
	ttl := fs.Duration("ttl", 0, "token lifetime (default WAKE_TOKEN_TTL)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := load()
	if err != nil {
		return err
	}
	if cfg.WakeSecret == "" {
		return errors.New("WAKE_SECRET is not set")
	}
	lifetime := cfg.WakeTokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := auth.NewJWTManager(cfg.WakeSecret, lifetime).Generate(*subject)
	if err != nil {
		return err
	}
	slog.Debug("Wake token issued", "subject", *subject, "ttl", lifetime.String())
	fmt.Fprintln(out, token)
	return nil
}

func hashKey(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("hash-key", flag.ContinueOnError)
	key := fs.String("key", "", "static wake key to hash for WAKE_KEY_HASH")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *key == "" {
		return errors.New("-key is required")
	}

	hash, err := auth.HashKey(*key)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hash)
	return nil
}
