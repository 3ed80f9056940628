package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/arathikrishnaam/dueDash/cmd/internal/api"
	"github.com/arathikrishnaam/dueDash/cmd/internal/auth"
	"github.com/arathikrishnaam/dueDash/cmd/internal/task"
	"github.com/arathikrishnaam/dueDash/cmd/security/token"
)

// App is the dueDash server runtime: it owns the database, the HTTP handler
// chain and the stats job.
type App struct {
	cfg Config
	log Logger

	backend *backend
	metrics *Metrics
	stats   *StatsJob
	handler http.Handler
}

// New constructs a fully wired App from config. The security settings are
// read from the environment.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	sec, err := loadSecurityConfig(log)
	if err != nil {
		return nil, err
	}
	codec, err := token.NewCodec(sec.token)
	if err != nil {
		return nil, err
	}

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a, err := newApp(cfg, log, b, sec, codec)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return a, nil
}

func newApp(cfg Config, log Logger, b *backend, sec securityConfig, codec *token.Codec) (*App, error) {
	authSvc, err := auth.NewService(b.users, sec.password, codec, auth.WithLogger(log))
	if err != nil {
		return nil, err
	}
	taskSvc, err := task.NewService(b.tasks, task.WithLogger(log))
	if err != nil {
		return nil, err
	}
	h, err := api.NewHandler(log, api.Config{MaxBodyBytes: cfg.MaxBodyBytes}, authSvc, taskSvc)
	if err != nil {
		return nil, err
	}

	metrics := NewMetrics()
	r := mux.NewRouter()
	registerHTTP(r, log, b.db, metrics, h)

	a := &App{
		cfg:     cfg,
		log:     log,
		backend: b,
		metrics: metrics,
		handler: WithRequestID(WithRequestLogging(WithSecurityHeaders(WithCORS(r, cfg, log)), log)),
	}

	if cfg.StatsEnabled {
		a.stats, err = NewStatsJob(log, cfg.StatsSchedule, taskSvc, b.users, metrics)
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Handler is the full HTTP handler chain.
func (a *App) Handler() http.Handler { return a.handler }

// Run starts the HTTP server and blocks until context cancellation or fatal server error.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	if a.stats != nil {
		a.stats.Start()
	}

	a.log.Info("server.start",
		"addr", a.cfg.HTTPAddr,
		"url", runtimeBaseURL(a.cfg.HTTPAddr),
		"driver", string(a.backend.db.Driver),
		"stats", a.stats != nil,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), nonZeroDuration(a.cfg.ShutdownTimeout, 10*time.Second))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	a.log.Info("server.stopped")
	return nil
}

// Close stops the stats job and releases the database. It is safe to call
// more than once.
func (a *App) Close() {
	if a.stats != nil {
		a.stats.Stop()
		a.stats = nil
	}
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.log.Error("store.close.fail", "err", err)
		}
		a.backend = nil
	}
}

// runtimeBaseURL turns a listen address into a URL a local client can dial.
func runtimeBaseURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
