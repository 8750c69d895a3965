package cmd

import (
	"errors"
	"fmt"

	"newswire/config"
	"newswire/db"
	"newswire/ingest"
	"newswire/providers"

	"github.com/urfave/cli/v2"
)

func fetchGuardianCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch-guardian",
		Usage: "Fetch and store articles from The Guardian",
		Description: `Fetches one page of articles from the Guardian content API, maps them
to the canonical article schema and stores the ones whose URL has not
been seen before.

Safe to re-run at any time; schedule hourly with cron.`,
		Flags: []cli.Flag{
			databaseFlag(),
			configFlag(),
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Guardian API key",
				EnvVars: []string{"NEWSWIRE_GUARDIAN_API_KEY"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadOptionalConfig(ctx)
			if err != nil {
				return err
			}
			provider := providers.NewGuardian(ctx.String("api-key"), cfg.Providers.Guardian.Query)
			applyEndpointOverride(&provider.Endpoint, cfg.Providers.Guardian)
			return runFetch(ctx, provider, "Guardian articles fetched and stored successfully.")
		},
	}
}

func fetchNYTimesCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch-nytimes",
		Usage: "Fetch and store articles from The New York Times",
		Description: `Fetches one page of articles from the New York Times article search
API, maps them to the canonical article schema and stores the ones whose
URL has not been seen before.

Safe to re-run at any time; schedule hourly with cron.`,
		Flags: []cli.Flag{
			databaseFlag(),
			configFlag(),
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "New York Times API key",
				EnvVars: []string{"NEWSWIRE_NYTIMES_API_KEY"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadOptionalConfig(ctx)
			if err != nil {
				return err
			}
			provider := providers.NewNYTimes(ctx.String("api-key"), cfg.Providers.NYTimes.Query)
			applyEndpointOverride(&provider.Endpoint, cfg.Providers.NYTimes)
			return runFetch(ctx, provider, "NYTimes articles fetched and stored successfully.")
		},
	}
}

func fetchNewsAPICmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch-newsapi",
		Usage: "Fetch and store articles from NewsAPI",
		Description: `Fetches one page of articles from the newsapi.org everything endpoint,
maps them to the canonical article schema and stores the ones whose URL
has not been seen before.

Safe to re-run at any time; schedule hourly with cron.`,
		Flags: []cli.Flag{
			databaseFlag(),
			configFlag(),
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "NewsAPI API key",
				EnvVars: []string{"NEWSWIRE_NEWSAPI_API_KEY"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadOptionalConfig(ctx)
			if err != nil {
				return err
			}
			provider := providers.NewNewsAPI(ctx.String("api-key"), cfg.Providers.NewsAPI.Query)
			applyEndpointOverride(&provider.Endpoint, cfg.Providers.NewsAPI)
			return runFetch(ctx, provider, "NewsAPI articles fetched and stored successfully.")
		},
	}
}

func applyEndpointOverride(endpoint *string, cfg config.TomlProvider) {
	if cfg.Endpoint != "" {
		*endpoint = cfg.Endpoint
	}
}

// runFetch executes one ingestion run and reports the outcome on stdout.
// Fetch failures are reported as output, not as a process error: the run is
// abandoned and the next scheduled tick recovers.
func runFetch(ctx *cli.Context, provider providers.Provider, successLine string) error {
	writer := db.NewWriter(ctx.String("database"))
	defer writer.Close()

	pipeline := ingest.NewPipeline(writer)
	if err := pipeline.Run(ctx.Context, provider); err != nil {
		var transportErr *providers.TransportError
		if errors.As(err, &transportErr) {
			fmt.Println("Failed to fetch articles: " + transportErr.Body)
		} else {
			fmt.Println("An error occurred: " + err.Error())
		}
		return nil
	}

	fmt.Println(successLine)
	return nil
}
