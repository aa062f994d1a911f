package spaproxy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/andrebq/taskbox/internal/logutil"
)

// AsHandler forwards page loads to the single page app served at frontend.
// It is meant to be the api router's not found handler, so only GET and
// HEAD are forwarded; anything else is a plain 404.
func AsHandler(ctx context.Context, frontend *url.URL) (http.Handler, error) {
	if frontend == nil || frontend.Scheme == "" || frontend.Host == "" {
		return nil, errors.New("spaproxy: frontend must be an absolute url")
	}
	log := logutil.GetOrDefault(ctx).With().Str("frontend", frontend.String()).Logger()
	proxy := httputil.NewSingleHostReverseProxy(frontend)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Frontend unavailable")
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			proxy.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	}), nil
}
