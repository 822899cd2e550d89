package cmd

import (
	"fmt"
	"net/http"
	"path"

	"github.com/EO-DataHub/eodhp-directory-services/api/handlers"
	"github.com/EO-DataHub/eodhp-directory-services/api/middleware"
	"github.com/EO-DataHub/eodhp-directory-services/api/services"
	docs "github.com/EO-DataHub/eodhp-directory-services/docs"
	"github.com/EO-DataHub/eodhp-directory-services/internal/appconfig"
	"github.com/EO-DataHub/eodhp-directory-services/internal/metrics"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title EODHP Directory Services API
// @version v1
// @description This is the API for the EODHP user and group directory.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling API requests",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, seed the directory and set up logging
		commonSetUp()
		defer directoryDB.Close()

		service := &services.Service{
			Config: appCfg,
			DB:     directoryDB,
		}

		r := newRouter(appCfg, service)

		log.Info().Msg(fmt.Sprintf("Server started at %s:%d", host, port))

		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", host, port),
			r); err != nil {

			log.Error().Err(err).Msg("could not start server")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run the server on")
}

// newRouter registers the API, metrics and docs routes.
func newRouter(appCfg *appconfig.Config, service *services.Service) *mux.Router {
	r := mux.NewRouter()

	// Metrics
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Docs
	if appCfg.DocsPath != "" {
		docs.SwaggerInfo.Host = appCfg.Host
		docs.SwaggerInfo.BasePath = appCfg.BasePath
		r.PathPrefix(appCfg.DocsPath).Handler(httpSwagger.Handler(
			httpSwagger.URL(path.Join(appCfg.DocsPath, "/doc.json")),
			httpSwagger.DeepLinking(true),
			httpSwagger.DocExpansion("none"),
			httpSwagger.DomID("swagger-ui"),
		)).Methods(http.MethodGet)
	}

	// Register the routes
	api := r.PathPrefix(appCfg.BasePath).Subrouter()

	// Apply the middleware to the API routes
	api.Use(middleware.WithLogger)
	api.Use(metrics.HTTPMetricsMiddleware)

	api.HandleFunc("/", handlers.GetRoot(service)).Methods(http.MethodGet)

	// User routes
	for _, p := range []string{"/users", "/users/"} {
		api.HandleFunc(p, handlers.GetUsers(service)).Methods(http.MethodGet)
		api.HandleFunc(p, handlers.CreateUser(service)).Methods(http.MethodPost)
	}
	api.HandleFunc("/users/{userid}", handlers.GetUser(service)).Methods(http.MethodGet)
	api.HandleFunc("/users/{userid}", handlers.UpdateUser(service)).Methods(http.MethodPut)
	api.HandleFunc("/users/{userid}", handlers.DeleteUser(service)).Methods(http.MethodDelete)

	// Group routes
	for _, p := range []string{"/groups", "/groups/"} {
		api.HandleFunc(p, handlers.GetGroups(service)).Methods(http.MethodGet)
		api.HandleFunc(p, handlers.CreateGroup(service)).Methods(http.MethodPost)
	}
	api.HandleFunc("/groups/{name}", handlers.GetGroup(service)).Methods(http.MethodGet)
	api.HandleFunc("/groups/{name}", handlers.UpdateGroup(service)).Methods(http.MethodPut)
	api.HandleFunc("/groups/{name}", handlers.DeleteGroup(service)).Methods(http.MethodDelete)

	return r
}
