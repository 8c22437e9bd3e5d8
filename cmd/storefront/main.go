package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"purefood/internal/config"
	"purefood/internal/logger"
	"purefood/internal/storefront"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const usage = `usage: storefront [--env-file FILE] [--backend local|remote] [--remote-url URL] <command> [args]

commands:
  products [--q TEXT] [--category NAME]
  categories
  product <id>
  cart
  cart add <id> [--qty N]
  cart set <id> <qty>
  cart remove <id>
  cart clear
  checkout --name NAME --phone PHONE --address ADDRESS [--notes TEXT]
  track <phone>
  order <id>
  admin --username USER --password PASS <orders|stats|low-stock|status|delete-order|add-product|update-product|delete-product|logout> [args]
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func execute(args []string, stdout, stderr io.Writer) error {
	global := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }

	envFile := global.String("env-file", ".env", "dotenv file loaded before configuration")
	backend := global.String("backend", "", "backend variant, overrides BACKEND_MODE")
	remoteURL := global.String("remote-url", "", "remote API base URL, overrides BACKEND_REMOTE_URL")

	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errUsage
	}

	// A missing dotenv file is fine; the environment may already be set.
	_ = godotenv.Load(*envFile)

	cfg := config.Load()
	if *backend != "" {
		cfg.Backend.Mode = *backend
	}
	if *remoteURL != "" {
		cfg.Backend.RemoteURL = *remoteURL
	}

	log, err := logger.NewCLI(cfg.Server.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := storefront.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	c := &cli{app: app, out: stdout, errOut: stderr}
	return c.run(ctx, global.Args())
}
