package api

import (
	"context"
	"net/http"

	"github.com/andrebq/taskbox/auth"
	authapi "github.com/andrebq/taskbox/auth/api"
	"github.com/andrebq/taskbox/internal/logutil"
	"github.com/andrebq/taskbox/store"
	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

type (
	// Tasks is the part of the store the task handlers need.
	Tasks interface {
		CreateTask(ctx context.Context, ownerID int64, in store.TaskInput) (store.Task, error)
		TasksByOwner(ctx context.Context, ownerID int64) ([]store.Task, error)
		TaskByID(ctx context.Context, id int64) (store.Task, error)
		UpdateTask(ctx context.Context, id int64, in store.TaskInput) (store.Task, error)
		DeleteTask(ctx context.Context, id int64) error
	}

	Pinger interface {
		Ping(ctx context.Context) error
	}

	Options struct {
		// AllowedOrigins lists the origins allowed to call the api from a
		// browser. Empty disables CORS headers.
		AllowedOrigins []string
		// Fallback serves every request no route matches, usually the
		// single page front end.
		Fallback http.Handler
	}

	server struct {
		tasks    Tasks
		accounts *auth.Accounts
		realm    *authapi.SecurityRealm
		validate *validator.Validate
		health   Pinger
	}
)

// AsHandler exposes accounts and tasks as a JSON api. Every route is
// available both at the root and under /api.
func AsHandler(ctx context.Context, db *store.DB, accounts *auth.Accounts, opts Options) http.Handler {
	s := &server{
		tasks:    db,
		accounts: accounts,
		realm:    authapi.NewRealm(accounts),
		validate: newValidator(),
		health:   db,
	}
	router := httprouter.New()
	for _, prefix := range []string{"", "/api"} {
		s.routes(router, prefix)
	}
	router.GET("/healthz", s.healthz)

	log := logutil.GetOrDefault(ctx)
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		log.Error().Interface("panic", v).Str("path", r.URL.Path).Msg("Handler panicked")
		writeJSON(w, http.StatusInternalServerError, message{Message: "Server Error"})
	}
	if opts.Fallback != nil {
		router.NotFound = opts.Fallback
	} else {
		router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, message{Message: "Not Found"})
		})
	}

	var handler http.Handler = router
	if len(opts.AllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept"},
			AllowCredentials: true,
		}).Handler(router)
	}
	return handler
}

func (s *server) routes(router *httprouter.Router, prefix string) {
	router.POST(prefix+"/register", s.register)
	router.POST(prefix+"/login", s.login)
	router.POST(prefix+"/logout", s.realm.Protect(s.logout))
	router.GET(prefix+"/user", s.realm.Protect(s.currentUser))

	router.GET(prefix+"/tasks", s.realm.Protect(s.listTasks))
	router.POST(prefix+"/tasks", s.realm.Protect(s.createTask))
	router.GET(prefix+"/tasks/:id", s.realm.Protect(s.showTask))
	router.PUT(prefix+"/tasks/:id", s.realm.Protect(s.updateTask))
	router.PATCH(prefix+"/tasks/:id", s.realm.Protect(s.updateTask))
	router.DELETE(prefix+"/tasks/:id", s.realm.Protect(s.deleteTask))
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := s.health.Ping(r.Context()); err != nil {
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).Msg("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
