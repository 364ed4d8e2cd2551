// Package api provides the HTTP API for the incident notification backend:
// provider and recipient management, incident lifecycle and the event
// endpoint that feeds the dispatch engine.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.vocdoni.io/dvote/log"

	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/dispatch"
)

type Config struct {
	Host   string
	Port   int
	Secret string
	DB     db.Database
	Engine *dispatch.Engine
}

// API type represents the API HTTP server with bearer token authentication.
type API struct {
	db     db.Database
	engine *dispatch.Engine
	host   string
	port   int
	secret string
	router *chi.Mux
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) *API {
	if conf == nil {
		return nil
	}
	return &API{
		db:     conf.DB,
		engine: conf.Engine,
		host:   conf.Host,
		port:   conf.Port,
		secret: conf.Secret,
	}
}

// Start starts the API HTTP server (non blocking).
func (a *API) Start() {
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", a.host, a.port), a.initRouter()); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
}

// Router returns the router with all the routes and middleware, for tests
// that mount the API on an httptest server.
func (a *API) Router() http.Handler {
	return a.initRouter()
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Throttle(100))
	r.Use(middleware.Timeout(45 * time.Second))

	// protected routes
	r.Group(func(r chi.Router) {
		r.Use(a.authenticator)
		// create a provider
		log.Infow("new route", "method", "POST", "path", providersEndpoint)
		r.Post(providersEndpoint, a.createProviderHandler)
		// list providers
		log.Infow("new route", "method", "GET", "path", providersEndpoint)
		r.Get(providersEndpoint, a.providersHandler)
		// get a provider
		log.Infow("new route", "method", "GET", "path", providerEndpoint)
		r.Get(providerEndpoint, a.providerHandler)
		// update a provider
		log.Infow("new route", "method", "PUT", "path", providerEndpoint)
		r.Put(providerEndpoint, a.updateProviderHandler)
		// delete a provider and its recipients
		log.Infow("new route", "method", "DELETE", "path", providerEndpoint)
		r.Delete(providerEndpoint, a.deleteProviderHandler)
		// subscribe a recipient to a provider
		log.Infow("new route", "method", "POST", "path", providerRecipientsEndpoint)
		r.Post(providerRecipientsEndpoint, a.createRecipientHandler)
		// list the recipients of a provider
		log.Infow("new route", "method", "GET", "path", providerRecipientsEndpoint)
		r.Get(providerRecipientsEndpoint, a.recipientsHandler)
		// get a recipient
		log.Infow("new route", "method", "GET", "path", recipientEndpoint)
		r.Get(recipientEndpoint, a.recipientHandler)
		// update a recipient
		log.Infow("new route", "method", "PUT", "path", recipientEndpoint)
		r.Put(recipientEndpoint, a.updateRecipientHandler)
		// unsubscribe a recipient
		log.Infow("new route", "method", "DELETE", "path", recipientEndpoint)
		r.Delete(recipientEndpoint, a.deleteRecipientHandler)
		// create an incident
		log.Infow("new route", "method", "POST", "path", incidentsEndpoint)
		r.Post(incidentsEndpoint, a.createIncidentHandler)
		// get an incident
		log.Infow("new route", "method", "GET", "path", incidentEndpoint)
		r.Get(incidentEndpoint, a.incidentHandler)
		// append an event and dispatch it
		log.Infow("new route", "method", "POST", "path", incidentEventsEndpoint)
		r.Post(incidentEventsEndpoint, a.createEventHandler)
		// read the incident history
		log.Infow("new route", "method", "GET", "path", incidentEventsEndpoint)
		r.Get(incidentEventsEndpoint, a.eventsHandler)
	})

	// public routes
	r.Group(func(r chi.Router) {
		log.Infow("new route", "method", "GET", "path", pingEndpoint)
		r.Get(pingEndpoint, func(w http.ResponseWriter, _ *http.Request) {
			httpWriteOK(w)
		})
	})

	a.router = r
	return r
}
