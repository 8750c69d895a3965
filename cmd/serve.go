package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"newswire/auth"
	"newswire/db"
	"newswire/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the newswire article API",
		Description: `Starts the newswire HTTP server.

Serves the filtered article query, the personalized feed, the source list
and the preference endpoints. All routes require a bearer token listed in
the configuration file.`,
		Flags: []cli.Flag{
			databaseFlag(),
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   3000,
				Usage:   "Port for the HTTP server",
				EnvVars: []string{"NEWSWIRE_PORT"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadOptionalConfig(ctx)
			if err != nil {
				return err
			}

			tokens := map[string]int64{}
			for _, token := range cfg.Tokens {
				tokens[token.Token] = token.UserId
			}
			if len(tokens) == 0 {
				log.Warn("No API tokens configured; every request will be rejected")
			}

			database := ctx.String("database")
			reader := db.NewReader(database)
			defer reader.Close()
			writer := db.NewWriter(database)
			defer writer.Close()

			app := server.Server(&server.ServerConfig{
				Reader:   reader,
				Writer:   writer,
				Verifier: auth.NewStaticVerifier(tokens),
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			go func() {
				<-c
				fmt.Println("Gracefully shutting down...")
				app.ShutdownWithTimeout(60 * time.Second)
			}()

			fmt.Println("Starting server...")
			if err := app.Listen(fmt.Sprintf(":%d", ctx.Int("port"))); err != nil {
				return err
			}

			fmt.Println("Done!")
			return nil
		},
	}
}
