package users

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andrebq/taskbox/api"
	"github.com/andrebq/taskbox/auth"
	"github.com/andrebq/taskbox/internal/cmdflags"
	"github.com/andrebq/taskbox/store"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	var db *store.DB
	dir := "."
	cost := auth.DefaultCost
	return &cli.Command{
		Name:  "users",
		Usage: "Manage accounts directly on the database",
		Flags: []cli.Flag{
			cmdflags.Database(&dir),
			cmdflags.BcryptCost(&cost),
		},
		Before: func(ctx *cli.Context) error {
			var err error
			db, err = store.Open(ctx.Context, dir)
			return err
		},
		After: func(ctx *cli.Context) error {
			if db == nil {
				return nil
			}
			return db.Close()
		},
		Subcommands: []*cli.Command{
			registerCmd(&db, &cost),
			logoutCmd(&db),
		},
	}
}

func accounts(db *store.DB, cost int) *auth.Accounts {
	return auth.NewAccounts(db, auth.NewIssuer(auth.StoreTokens(db), 0), cost)
}

func registerCmd(db **store.DB, cost *int) *cli.Command {
	var name, email string
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "Display name of the user",
				Destination: &name,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "Email used to login",
				Destination: &email,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			passwd, err := readPassword(os.Stdin)
			if err != nil {
				return err
			}
			defer passwd.Zero()
			if err := api.ValidateRegistration(name, email, string(passwd)); err != nil {
				return err
			}
			user, err := accounts(*db, *cost).Register(ctx.Context, name, email, passwd)
			if err != nil {
				return err
			}
			log.Info().Int64("user", user.ID).Str("email", user.Email).Msg("User registered")
			fmt.Fprintln(ctx.App.Writer, user.ID)
			return nil
		},
	}
}

func logoutCmd(db **store.DB) *cli.Command {
	var email string
	return &cli.Command{
		Name:  "logout",
		Usage: "Revoke every access token of a user",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "Email of the user",
				Destination: &email,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			user, err := accounts(*db, auth.MinCost).LogoutEmail(ctx.Context, email)
			if err != nil {
				return err
			}
			log.Info().Int64("user", user.ID).Msg("All sessions revoked")
			return nil
		},
	}
}

func readPassword(in io.Reader) (auth.PlainText, error) {
	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("missing password from stdin")
	}
	passwd := strings.TrimSpace(sc.Text())
	if len(passwd) == 0 {
		return nil, errors.New("missing password from stdin")
	}
	return auth.PlainText(passwd), nil
}
