package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/blinko-mcp/internal"
	pkgconfig "github.com/starford/blinko-mcp/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.DecodeOptional(configPath, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	overrides := internal.Overrides{
		BlinkoDomain: cmd.String("blinko_domain"),
		BlinkoAPIKey: cmd.String("blinko_api_key"),
		Transport:    cmd.String("transport"),
		HTTPPort:     int(cmd.Int("http_port")),
	}
	overrides.Apply(cfg)

	if err := pkgconfig.Validate(cfg); err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithConfigFile(configPath, overrides),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "blinko-mcp",
		Usage:  "MCP server exposing a Blinko note-taking instance as tools",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "blinko_domain",
				Usage:   "Blinko host or base URL, e.g. blinko.example.com",
				Sources: cli.EnvVars("BLINKO_DOMAIN"),
			},
			&cli.StringFlag{
				Name:    "blinko_api_key",
				Usage:   "Blinko API key",
				Sources: cli.EnvVars("BLINKO_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "transport",
				Usage:   "MCP transport: stdio or http",
				Sources: cli.EnvVars("BLINKO_MCP_TRANSPORT"),
			},
			&cli.IntFlag{
				Name:    "http_port",
				Usage:   "Listen port for the http transport",
				Sources: cli.EnvVars("BLINKO_MCP_HTTP_PORT"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
