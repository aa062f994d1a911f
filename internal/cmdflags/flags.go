package cmdflags

import (
	"github.com/andrebq/taskbox/auth"
	"github.com/urfave/cli/v2"
)

func Database(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "db",
		Aliases:     []string{"database", "d"},
		Usage:       "Directory that holds taskbox.db (created if missing)",
		EnvVars:     []string{"TASKBOX_DB"},
		Destination: out,
		Value:       *out,
	}
}

func Config(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to a Lua file that assigns the taskbox table",
		EnvVars:     []string{"TASKBOX_CONFIG"},
		Destination: out,
		Value:       *out,
	}
}

func TokenStore(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = auth.TokenStoreSQLite
	}
	return &cli.StringFlag{
		Name:        "token-store",
		Usage:       "Where access tokens live: sqlite (survives restarts) or memory",
		EnvVars:     []string{"TASKBOX_TOKEN_STORE"},
		Destination: out,
		Value:       *out,
	}
}

func BcryptCost(out *int) cli.Flag {
	if *out == 0 {
		*out = auth.DefaultCost
	}
	return &cli.IntFlag{
		Name:        "bcrypt-cost",
		Usage:       "Work factor used when hashing new passwords",
		EnvVars:     []string{"TASKBOX_BCRYPT_COST"},
		Destination: out,
		Value:       *out,
	}
}
