// Package server hosts the settings service: a small HTTP API that reads the
// persisted settings document and applies validated partial updates through
// the command-line patch engine.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/skipper-desktop/skipctl/internal/config"
	"github.com/skipper-desktop/skipctl/internal/discovery"
	"github.com/skipper-desktop/skipctl/internal/settings"
	"github.com/skipper-desktop/skipctl/internal/store"
)

const maxRequestBody = 1 << 20

// result is the response envelope; see client.Result for the field contract.
type result struct {
	Status any    `json:"status"`
	Type   string `json:"type"`
	Value  any    `json:"value"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("server.response.encode_failed", "error", err)
	}
}

func writeErrorResult(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, result{Status: "error", Type: "text", Value: message})
}

// NewMux builds the HTTP handler for the settings service. requestShutdown
// is called when a client asks the service to exit.
func NewMux(st *store.Store, logger *slog.Logger, requestShutdown func()) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v0/settings", func(w http.ResponseWriter, r *http.Request) {
		logger.Info("server.settings.get", "method", r.Method, "path", r.URL.Path)
		writeJSON(w, http.StatusOK, st.Snapshot())
	})

	mux.HandleFunc("PUT /v0/settings", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := logger.With("method", r.Method, "path", r.URL.Path)
		logger.Info("server.settings.update.started")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		rawBody, err := io.ReadAll(r.Body)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				logger.Warn("server.settings.update.rejected", "error_code", "request_too_large", "duration_ms", time.Since(start).Milliseconds())
				writeErrorResult(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			logger.Error("server.settings.update.read_failed", "duration_ms", time.Since(start).Milliseconds(), "error", err)
			writeErrorResult(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var proposed map[string]any
		if err := json.Unmarshal(rawBody, &proposed); err != nil {
			logger.Warn("server.settings.update.rejected", "error_code", "invalid_request_body", "duration_ms", time.Since(start).Milliseconds(), "error", err)
			writeErrorResult(w, http.StatusBadRequest, "request body must be a settings JSON object")
			return
		}

		// Remote updates go through the same patch engine as the command
		// line: the proposed document is flattened into --path=value
		// arguments and replayed against a fresh snapshot, so path and type
		// violations fail with the same wording either way.
		args, err := flattenToArgs(proposed)
		if err != nil {
			logger.Warn("server.settings.update.rejected", "error_code", "invalid_settings_value", "duration_ms", time.Since(start).Milliseconds(), "error", err)
			writeErrorResult(w, http.StatusBadRequest, err.Error())
			return
		}

		// The read-modify-write runs inside the store's lock: overlapping
		// requests apply to each other's results instead of to stale
		// snapshots. Patch and schema errors come from the request and map to
		// 400; anything left over is a persistence failure.
		var updated map[string]any
		var rejectErr error
		persistErr := st.Update(func(doc map[string]any) (map[string]any, error) {
			patched, err := settings.UpdateFromCommandLine(doc, args)
			if err == nil {
				_, err = settings.FromMap(patched)
			}
			if err != nil {
				rejectErr = err
				return nil, err
			}
			updated = patched
			return patched, nil
		})
		if rejectErr != nil {
			logger.Warn("server.settings.update.rejected", "error_code", "invalid_settings_patch", "duration_ms", time.Since(start).Milliseconds(), "error", rejectErr)
			writeErrorResult(w, http.StatusBadRequest, rejectErr.Error())
			return
		}
		if persistErr != nil {
			logger.Error("server.settings.update.persist_failed", "duration_ms", time.Since(start).Milliseconds(), "error", persistErr)
			writeErrorResult(w, http.StatusInternalServerError, "unable to persist settings")
			return
		}

		logger.Info("server.settings.update.completed", "status_code", http.StatusAccepted, "duration_ms", time.Since(start).Milliseconds())
		writeJSON(w, http.StatusAccepted, result{Status: "updated", Type: "json", Value: updated})
	})

	mux.HandleFunc("POST /v0/shutdown", func(w http.ResponseWriter, r *http.Request) {
		logger.Info("server.shutdown.requested", "method", r.Method, "path", r.URL.Path)
		writeJSON(w, http.StatusOK, result{Status: true, Type: "text", Value: "Shutting down the settings server."})
		requestShutdown()
	})

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}

// Start runs the settings service until it fails or a shutdown is requested.
// It advertises its listening address through the connection-info file so
// skipctl invocations can find it.
func Start(cfg config.Config) error {
	settingsPath, err := store.SettingsPath()
	if err != nil {
		return err
	}
	st, err := store.Open(settingsPath)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return err
	}

	shutdownRequested := make(chan struct{})
	var once sync.Once
	requestShutdown := func() {
		once.Do(func() { close(shutdownRequested) })
	}

	srv := &http.Server{
		Handler:      NewMux(st, slog.Default(), requestShutdown),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	infoPath, err := discovery.Write(discovery.ServerInfo{
		Address: listener.Addr().String(),
		PID:     os.Getpid(),
	})
	if err != nil {
		listener.Close()
		return err
	}
	defer func() {
		if err := discovery.Remove(); err != nil {
			slog.Warn("server.connection_info.cleanup_failed", "path", infoPath, "error", err)
		}
	}()

	go func() {
		<-shutdownRequested
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	slog.Info("server.started", "address", listener.Addr().String(), "settings_path", st.Path())
	if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
