package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Yours"
	app.Usage = "The Yours nft marketplace backend"
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start the api server",
			Category:    "Api",
			Description: `Serves every api and runs the purchase settlement poller.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate the database schema",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "version",
					Usage: "Migration version to run, defaults to auto",
				},
			},
			Description: `Creates or updates every table this version needs.`,
		},
	}

	s.app = app
}
