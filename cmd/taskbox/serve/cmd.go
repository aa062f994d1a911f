package serve

import (
	"net/url"

	"github.com/andrebq/taskbox/api"
	"github.com/andrebq/taskbox/auth"
	"github.com/andrebq/taskbox/internal/cmdflags"
	"github.com/andrebq/taskbox/internal/config"
	"github.com/andrebq/taskbox/internal/httpserver"
	"github.com/andrebq/taskbox/internal/logutil"
	"github.com/andrebq/taskbox/internal/spaproxy"
	"github.com/andrebq/taskbox/store"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	defaults := config.Default()
	flags := defaults
	var configFile string
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the taskbox api",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind for incoming requests",
				EnvVars:     []string{"TASKBOX_BIND"},
				Destination: &flags.Bind,
				Value:       flags.Bind,
			},
			cmdflags.Database(&flags.Database),
			cmdflags.Config(&configFile),
			cmdflags.TokenStore(&flags.TokenStore),
			cmdflags.BcryptCost(&flags.BcryptCost),
			&cli.StringFlag{
				Name:        "token-ttl",
				Usage:       "How long an access token stays valid, 0 means until logout",
				EnvVars:     []string{"TASKBOX_TOKEN_TTL"},
				Destination: &flags.TokenTTL,
				Value:       flags.TokenTTL,
			},
			&cli.StringFlag{
				Name:        "allowed-origin",
				Usage:       "Comma separated origins allowed to call the api from a browser",
				EnvVars:     []string{"TASKBOX_ALLOWED_ORIGIN"},
				Destination: &flags.AllowedOrigin,
			},
			&cli.StringFlag{
				Name:        "frontend",
				Usage:       "Base url of the web front end, unknown routes are proxied to it",
				EnvVars:     []string{"TASKBOX_FRONTEND"},
				Destination: &flags.Frontend,
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := resolve(ctx, configFile, defaults, flags)
			if err != nil {
				return err
			}
			if err := logutil.Setup(cfg.LogLevel, cfg.LogPretty); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ttl, err := cfg.TTL()
			if err != nil {
				return err
			}

			db, err := store.Open(ctx.Context, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			tokens, err := auth.OpenTokenStore(ctx.Context, cfg.TokenStore, db, ttl)
			if err != nil {
				return err
			}
			accounts := auth.NewAccounts(db, auth.NewIssuer(tokens, ttl), cfg.BcryptCost)
			if ttl > 0 && cfg.TokenStore == auth.TokenStoreSQLite {
				go auth.PruneExpired(ctx.Context, db, ttl)
			}

			opts := api.Options{AllowedOrigins: cfg.Origins()}
			if cfg.Frontend != "" {
				frontend, err := url.Parse(cfg.Frontend)
				if err != nil {
					return err
				}
				opts.Fallback, err = spaproxy.AsHandler(ctx.Context, frontend)
				if err != nil {
					return err
				}
			}
			handler := api.AsHandler(ctx.Context, db, accounts, opts)
			log.Info().
				Str("database", cfg.Database).
				Str("tokenStore", cfg.TokenStore).
				Dur("tokenTTL", ttl).
				Msg("Taskbox ready")
			return httpserver.Serve(ctx.Context, cfg.Bind, httpserver.Instrument(log.Logger, handler))
		},
	}
}

// resolve merges defaults, the optional Lua file and the flags given on the
// command line, in that order.
func resolve(ctx *cli.Context, configFile string, defaults, flags config.Config) (config.Config, error) {
	cfg := defaults
	if configFile != "" {
		var err error
		cfg, err = config.LoadFile(configFile, cfg)
		if err != nil {
			return cfg, err
		}
	}
	for name, apply := range map[string]func(){
		"bind":           func() { cfg.Bind = flags.Bind },
		"db":             func() { cfg.Database = flags.Database },
		"token-store":    func() { cfg.TokenStore = flags.TokenStore },
		"token-ttl":      func() { cfg.TokenTTL = flags.TokenTTL },
		"bcrypt-cost":    func() { cfg.BcryptCost = flags.BcryptCost },
		"allowed-origin": func() { cfg.AllowedOrigin = flags.AllowedOrigin },
		"frontend":       func() { cfg.Frontend = flags.Frontend },
		"log-level":      func() { cfg.LogLevel = ctx.String("log-level") },
		"log-pretty":     func() { cfg.LogPretty = ctx.Bool("log-pretty") },
	} {
		if ctx.IsSet(name) {
			apply()
		}
	}
	return cfg, nil
}
