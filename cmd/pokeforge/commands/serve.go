package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/pokeforge-client/pkg/client"
	"github.com/Sternrassler/pokeforge-client/pkg/metrics"
	"github.com/Sternrassler/pokeforge-client/pkg/pokeforge"
)

const (
	proxyPrefix     = "/api"
	shutdownTimeout = 10 * time.Second
)

func (a *App) newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a caching read-only proxy in front of the API",
		Long: `Serve GET requests under /api/ through the PokeForge client, so they
share its retries, rate-limit handling and Redis cache (--redis-url).

Endpoints:
  /health   liveness, always OK
  /ready    API health check plus Redis ping when caching
  /metrics  Prometheus metrics
  /api/...  proxied GET, e.g. /api/Cards?setId=base1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := a.client()
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           a.proxyMux(pf),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			a.logger.Info().
				Str("addr", addr).
				Str("base_url", a.settings.BaseURL).
				Bool("cache", a.redis != nil).
				Msg("Starting PokeForge proxy")

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("proxy server failed: %w", err)
			case <-ctx.Done():
				a.logger.Info().Msg("Shutting down PokeForge proxy")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")

	return cmd
}

func (a *App) proxyMux(pf *pokeforge.Client) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", a.readyHandler(pf))
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc(proxyPrefix+"/", a.proxyHandler(pf))
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (a *App) readyHandler(pf *pokeforge.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if c := pf.API().Config().Cache; c != nil {
			if err := c.Ping(ctx); err != nil {
				a.logger.Warn().Err(err).Msg("Readiness: Redis unavailable")
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		if err := pf.Health(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("Readiness: API unavailable")
			http.Error(w, "api unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// proxyHandler forwards GET /api/<path>?<query> to <path>?<query> with the
// incoming request's bearer token, if any.
func (a *App) proxyHandler(pf *pokeforge.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeProxyProblem(w, http.StatusMethodNotAllowed, "only GET is proxied")
			return
		}

		// Only the caller's own token is forwarded, never the configured one.
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			token = ""
		}
		api := pf.API().WithToken(token)

		path := strings.TrimPrefix(r.URL.EscapedPath(), proxyPrefix)
		query := client.Query{}
		for key, values := range r.URL.Query() {
			query[key] = values
		}

		data, err := api.Get(r.Context(), path, query)
		if err != nil {
			a.writeProxyError(w, path, err)
			return
		}

		if data == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			a.logger.Warn().Err(err).Str("path", path).Msg("Failed to write proxy response")
		}
	}
}

func (a *App) writeProxyError(w http.ResponseWriter, path string, err error) {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		writeProxyProblem(w, http.StatusBadGateway, err.Error())
		return
	}

	status := apiErr.Status
	switch {
	case apiErr.Kind == client.KindTimeout:
		status = http.StatusGatewayTimeout
	case status == 0:
		status = http.StatusBadGateway
	}
	if apiErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(apiErr.RetryAfter.Seconds())))
	}

	a.logger.Debug().
		Str("path", path).
		Str("error_kind", string(apiErr.Kind)).
		Int("status", status).
		Msg("Proxy request failed")

	writeProxyProblem(w, status, apiErr.Message)
}

func writeProxyProblem(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(client.ProblemDetails{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}
