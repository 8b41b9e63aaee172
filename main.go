package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "skimr",
		Usage: "capture pages, summarize them and share the summaries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{"SKIMR_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serveAction,
			},
			{
				Name:   "summarizer",
				Usage:  "run the summarization service",
				Action: summarizerAction,
			},
			{
				Name:   "archive",
				Usage:  "archive created items from Kafka to S3",
				Action: archiveAction,
			},
			{
				Name:  "extract",
				Usage: "extract readable content from a page and print it as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "page URL", Required: true},
					&cli.StringFlag{Name: "html-file", Usage: "read the page from a saved HTML file instead of fetching it"},
				},
				Action: extractAction,
			},
			{
				Name:  "token",
				Usage: "issue an access token for a user id",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Usage: "user id", Required: true},
				},
				Action: tokenAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
