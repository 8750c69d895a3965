package cmd

import (
	"fmt"

	"newswire/db"

	"github.com/cqroot/prompt"
	"github.com/urfave/cli/v2"
)

func purgeCmd() *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Delete old articles from the database",
		Description: `Deletes articles published more than --days days ago.

		Can be run as a cron job to keep the database size down. Asks for
		confirmation unless --yes is given.`,
		Flags: []cli.Flag{
			databaseFlag(),
			&cli.IntFlag{
				Name:    "days",
				Value:   90,
				Usage:   "Delete articles published more than this many days ago",
				EnvVars: []string{"NEWSWIRE_PURGE_DAYS"},
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
		},
		Action: func(ctx *cli.Context) error {
			days := ctx.Int("days")

			if !ctx.Bool("yes") {
				answer, err := prompt.New().
					Ask(fmt.Sprintf("Delete articles published more than %d days ago?", days)).
					Choose([]string{"Yes", "No"})
				if err != nil {
					return err
				}
				if answer != "Yes" {
					fmt.Println("Aborted")
					return nil
				}
			}

			writer := db.NewWriter(ctx.String("database"))
			defer writer.Close()

			deleted, err := writer.PurgeOlderThan(ctx.Context, days)
			if err != nil {
				return err
			}

			fmt.Printf("Deleted %d articles\n", deleted)
			return nil
		},
	}
}
