package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "boxmaster"
	s.app.Usage = "Blind box sales of deposited NFTs"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path of the TOML configuration file",
			EnvVars: []string{"BOXMASTER_CONFIG"},
		},
	}
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used to start the http api. With the local collaborators it also fulfills randomness requests.`,
		},
		{
			Action:      s.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start service subscriber",
			Category:    "Worker",
			Description: `Used to deliver the random words of the oracle consumed from kafka.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database",
			Category:    "Tool",
			Description: `Used to create tables and store the configured settings which were never set.`,
		},
		{
			Action:   s.startToken,
			Name:     "token",
			Usage:    "Print an access token",
			Category: "Tool",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "address",
					Usage:    "Address of the account",
					Required: true,
				},
			},
			Description: `Used to sign an access token for an address.`,
		},
	}
}
