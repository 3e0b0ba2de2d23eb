package main

import (
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/dominonight/go/internal/config"
)

func setupServer(cfg config.ServerConfig, services *Services) *http.Server {
	router := mux.NewRouter()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})

	// Add health check endpoint
	setupHealthCheck(router, services.Health)

	// Register services
	registerServices(router, services)

	// Wrap with CORS
	handler := c.Handler(router)

	// Setup HTTP/2 server
	return &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}

type connectService interface {
	Handler(opts ...connect.HandlerOption) (string, http.Handler)
}

func registerServices(router *mux.Router, services *Services) {
	for _, svc := range []connectService{
		services.Night,
		services.History,
		services.Roster,
	} {
		path, handler := svc.Handler()
		router.PathPrefix(path).Handler(handler)
		log.Debug().Str("path", path).Msg("registered service")
	}
}

func setupHealthCheck(router *mux.Router, checker http.Handler) {
	router.Handle("/health", checker).Methods(http.MethodGet, http.MethodHead)
}
