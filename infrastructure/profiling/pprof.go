// Package profiling exposes net/http/pprof on a loopback port when enabled.
package profiling

import (
	"net/http"
	_ "net/http/pprof" //nolint:gosec // bound to localhost only
	"os"
	"time"

	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
)

const (
	defaultPort       = "6060"
	readHeaderTimeout = 5 * time.Second
)

// StartPprofServer serves the default mux on localhost:$PPROF_PORT when
// ENABLE_PROFILING=true. It returns immediately.
func StartPprofServer(log infralogger.Logger) {
	if os.Getenv("ENABLE_PROFILING") != "true" {
		return
	}

	port := os.Getenv("PPROF_PORT")
	if port == "" {
		port = defaultPort
	}
	addr := "localhost:" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           http.DefaultServeMux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info("Starting pprof server", infralogger.String("address", addr))
		if err := srv.ListenAndServe(); err != nil {
			log.Warn("pprof server stopped", infralogger.Error(err))
		}
	}()
}
