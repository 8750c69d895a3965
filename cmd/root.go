package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "newswire",
		Usage: "A news aggregation service with a personalized feed API",
		Description: `Newswire ingests articles from The Guardian, The New York Times and
		NewsAPI, normalizes them into a common schema, deduplicates them by
		URL and serves them through a filtered, paginated HTTP API.

		The fetch commands are idempotent and safe to re-run at any time;
		schedule them hourly with cron or a similar external scheduler.

		Flags can generally be set via environment variables, e.g.:

		--database => NEWSWIRE_DATABASE=newswire.db
		--port => NEWSWIRE_PORT=3000
		`,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			rollbackCmd(),
			fetchGuardianCmd(),
			fetchNYTimesCmd(),
			fetchNewsAPICmd(),
			purgeCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
