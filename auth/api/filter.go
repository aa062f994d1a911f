package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/andrebq/taskbox/auth"
	"github.com/andrebq/taskbox/internal/logutil"
	"github.com/julienschmidt/httprouter"
)

type (
	// Handle is a protected handler, it receives the identity resolved
	// from the bearer token of the request.
	Handle func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, id auth.Identity)

	Authenticator interface {
		Authenticate(ctx context.Context, token string) (auth.Identity, error)
	}

	SecurityRealm struct {
		authenticator Authenticator
	}
)

var (
	bearerTokenRE = regexp.MustCompile(`^(?i:bearer) ([^\s]+)$`)
)

func NewRealm(authenticator Authenticator) *SecurityRealm {
	return &SecurityRealm{
		authenticator: authenticator,
	}
}

// Protect resolves the bearer token of every request before calling
// sensitive. Nothing is cached between requests.
func (s *SecurityRealm) Protect(sensitive Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := s.checkToken(r)
		if errors.Is(err, auth.ErrUnauthenticated) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		} else if err != nil {
			writeMessage(w, http.StatusInternalServerError, "Server Error")
			return
		}
		sensitive(w, r, ps, id)
	}
}

func (s *SecurityRealm) checkToken(r *http.Request) (auth.Identity, error) {
	ctx := r.Context()
	log := logutil.GetOrDefault(ctx)
	hdrVal := r.Header.Get("Authorization")
	groups := bearerTokenRE.FindStringSubmatch(hdrVal)
	if len(groups) == 0 {
		log.Debug().Str("path", r.URL.Path).Msg("Request without bearer token")
		return auth.Identity{}, auth.ErrUnauthenticated
	}
	id, err := s.authenticator.Authenticate(ctx, groups[1])
	if err != nil && !errors.Is(err, auth.ErrUnauthenticated) {
		log.Error().Err(err).Msg("Unexpected error when checking for token in token store")
	}
	return id, err
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(struct {
		Message string `json:"message"`
	}{msg})
}
