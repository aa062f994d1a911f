package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andrebq/taskbox/auth"
)

type (
	// Config holds every knob of the serve command. Field names double as
	// the snake_case keys of the Lua configuration table.
	Config struct {
		Bind          string
		Database      string
		TokenStore    string
		TokenTTL      string
		BcryptCost    int
		LogLevel      string
		LogPretty     bool
		AllowedOrigin string
		Frontend      string
	}

	InvalidConfig struct {
		Field  string
		Reason string
	}
)

func (i InvalidConfig) Error() string {
	return fmt.Sprintf("config: %v %v", i.Field, i.Reason)
}

func Default() Config {
	return Config{
		Bind:       "localhost:8000",
		Database:   ".",
		TokenStore: auth.TokenStoreSQLite,
		TokenTTL:   "0s",
		BcryptCost: auth.DefaultCost,
		LogLevel:   "info",
	}
}

// TTL parses TokenTTL; an empty value means tokens never expire.
func (c Config) TTL() (time.Duration, error) {
	if c.TokenTTL == "" {
		return 0, nil
	}
	return time.ParseDuration(c.TokenTTL)
}

// Origins splits AllowedOrigin on commas, dropping empty entries.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Bind) == "" {
		errs = append(errs, InvalidConfig{Field: "bind", Reason: "cannot be empty"})
	}
	if strings.TrimSpace(c.Database) == "" {
		errs = append(errs, InvalidConfig{Field: "database", Reason: "cannot be empty"})
	}
	switch c.TokenStore {
	case auth.TokenStoreSQLite, auth.TokenStoreMemory:
	default:
		errs = append(errs, InvalidConfig{Field: "token_store", Reason: fmt.Sprintf("%q is not one of %v, %v", c.TokenStore, auth.TokenStoreSQLite, auth.TokenStoreMemory)})
	}
	if ttl, err := c.TTL(); err != nil {
		errs = append(errs, InvalidConfig{Field: "token_ttl", Reason: err.Error()})
	} else if ttl < 0 {
		errs = append(errs, InvalidConfig{Field: "token_ttl", Reason: "cannot be negative"})
	}
	if c.BcryptCost < auth.MinCost || c.BcryptCost > auth.MaxCost {
		errs = append(errs, InvalidConfig{Field: "bcrypt_cost", Reason: fmt.Sprintf("must be between %v and %v", auth.MinCost, auth.MaxCost)})
	}
	return errors.Join(errs...)
}
