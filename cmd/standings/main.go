package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:      "standings",
		Usage:     "print the leaderboard of a challenge",
		ArgsUsage: "<challenge-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   "http://localhost:8080",
				Usage:   "base URL of the tracker API",
				EnvVars: []string{"SOLOQ_API_URL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 10 * time.Second,
				Usage: "request timeout",
			},
		},
		Action: func(c *cli.Context) error {
			challengeID := c.Args().First()
			if challengeID == "" {
				return cli.Exit("challenge id is required", 2)
			}

			client := &http.Client{Timeout: c.Duration("timeout")}
			rows, err := fetchLeaderboard(c.Context, client, c.String("api"), challengeID)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, render(rows))
			return nil
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
