// repricer keeps Shopify variant prices at a fixed net margin over supplier cost.
//
// Usage:
//
//	repricer serve
//	repricer run [--dry-run]
//	repricer reload-feed
//	repricer quote --cost 4.00 [--rounding ends_in_99]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopify-repricer/internal/api"
	"shopify-repricer/internal/app/usecases"
	"shopify-repricer/internal/config"
	"shopify-repricer/internal/domain/pricing"
	"shopify-repricer/internal/scheduler"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "repricer",
		Usage: "Reprice Shopify variants from supplier costs",
		Commands: []*cli.Command{
			serveCommand(),
			runCommand(),
			reloadFeedCommand(),
			quoteCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP trigger surface and the pricing schedule",
		Action: func(c *cli.Context) error {
			app, err := buildApplication(false)
			if err != nil {
				return err
			}
			defer app.close()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			sched, err := scheduler.New(app.cfg.Schedule.Expression, app.repricer, app.logger)
			if err != nil {
				return err
			}
			server := api.NewServer(api.NewRepriceHandler(app.repricer), app.logger.Zap())

			serverErr := make(chan error, 1)
			go func() {
				app.logger.Log("http server listening", zap.String("addr", app.cfg.Server.Addr))
				if err := server.Start(app.cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
				close(serverErr)
			}()
			sched.Start(ctx)

			select {
			case <-ctx.Done():
			case err := <-serverErr:
				if err != nil {
					app.logger.LogError("http server failed", err)
				}
			}

			app.logger.Log("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				app.logger.LogWarning("http server shutdown failed", zap.Error(err))
			}
			sched.Stop(shutdownCtx)
			return nil
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run one pricing pass and print its outcome",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Compute prices without updating the store",
			},
		},
		Action: func(c *cli.Context) error {
			app, err := buildApplication(c.Bool("dry-run"))
			if err != nil {
				return err
			}
			defer app.close()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			outcome, err := app.repricer.Run(ctx, usecases.TriggerCLI)
			if err != nil {
				return err
			}
			return printJSON(outcome)
		},
	}
}

func reloadFeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "reload-feed",
		Usage: "Load the bulk cost feed and report how many SKUs it holds",
		Action: func(c *cli.Context) error {
			app, err := buildApplication(false)
			if err != nil {
				return err
			}
			defer app.close()

			loaded, err := app.repricer.ReloadFeed(c.Context)
			if err != nil {
				return err
			}
			fmt.Printf("loaded=%d path=%s\n", loaded, app.cfg.Feed.Path)
			return nil
		},
	}
}

func quoteCommand() *cli.Command {
	return &cli.Command{
		Name:  "quote",
		Usage: "Print the target price for a supplier cost",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "cost",
				Usage:    "Supplier cost, e.g. 4.00",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "rounding",
				Usage: "Rounding mode (none, ends_in_99, ends_in_95, whole); defaults to PRICING_ROUNDING_MODE",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadForPricing()
			if err != nil {
				return err
			}
			cost, err := decimal.NewFromString(c.String("cost"))
			if err != nil {
				return fmt.Errorf("invalid cost %q: %w", c.String("cost"), err)
			}
			mode := cfg.Pricing.RoundingMode
			if c.IsSet("rounding") {
				mode = c.String("rounding")
			}
			fmt.Println(quote(usecases.RepricerOptionsFromConfig(cfg).Formula, cost, pricing.ParseRoundingMode(mode)))
			return nil
		},
	}
}

func quote(formula pricing.Formula, cost decimal.Decimal, mode pricing.RoundingMode) string {
	raw := formula.PriceFromCost(cost)
	return fmt.Sprintf("cost=%s raw=%s rounding=%s price=%s",
		cost.StringFixed(2), raw.StringFixed(4), mode, formula.TargetPrice(cost, mode).StringFixed(2))
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
