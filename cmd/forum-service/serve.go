package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/Vladiumnika/forumblackdynasty/internal/cache"
	"github.com/Vladiumnika/forumblackdynasty/internal/challenge"
	"github.com/Vladiumnika/forumblackdynasty/internal/config"
	forumhttp "github.com/Vladiumnika/forumblackdynasty/internal/http"
	"github.com/Vladiumnika/forumblackdynasty/internal/http/middleware"
	"github.com/Vladiumnika/forumblackdynasty/internal/notify"
	"github.com/Vladiumnika/forumblackdynasty/internal/pkg/log"
	"github.com/Vladiumnika/forumblackdynasty/internal/service"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage/minio"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage/mongo"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage/postgres"
)

func serve(c *cli.Context) error {
	cfg, lg, err := bootstrap(c)
	if err != nil {
		return err
	}

	lg.Info("starting forum-service", "env", cfg.Env)

	rootCtx, rootCancel := signalContext(c)
	defer rootCancel()

	content, err := mongo.New(rootCtx, cfg)
	if err != nil {
		lg.Error("mongo_init_failed", slog.String("err", err.Error()))
		return err
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if cerr := content.Close(ctx); cerr != nil {
			lg.Warn("mongo_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	identity, err := postgres.New(rootCtx, cfg.Postgres.URL)
	if err != nil {
		lg.Error("postgres_init_failed", slog.String("err", err.Error()))
		return err
	}
	defer identity.Close()

	avatars, err := minio.New(rootCtx, cfg, minio.Options{CreateBucket: cfg.Env == log.EnvLocal})
	if err != nil {
		lg.Error("s3_init_failed", slog.String("err", err.Error()))
		return err
	}

	notifier, err := newNotifier(cfg)
	if err != nil {
		lg.Error("mailer_init_failed", slog.String("err", err.Error()))
		return err
	}

	deps := service.Deps{
		Content:   content,
		Identity:  identity,
		Avatars:   avatars,
		Notifier:  notifier,
		Challenge: challenge.NewRecaptcha(cfg),
	}

	// Redis необязателен: без него refresh-сессии читаются из PostgreSQL.
	if cfg.Redis.URL != "" {
		sessions, err := cache.New(rootCtx, cfg.Redis)
		if err != nil {
			lg.Error("redis_init_failed", slog.String("err", err.Error()))
			return err
		}

		defer func() {
			if cerr := sessions.Close(); cerr != nil {
				lg.Warn("redis_close_failed", slog.String("err", cerr.Error()))
			}
		}()

		deps.Sessions = sessions
	}

	lg.Info("dependencies_initialized", slog.Bool("session_cache", deps.Sessions != nil))

	svc := service.New(cfg, deps)

	apiHandler := forumhttp.NewRouter(svc, forumhttp.Options{
		Logger:      lg,
		Timeout:     cfg.HTTP.RequestTimeout,
		BasePath:    "/api",
		Auth:        svc,
		RateLimit:   middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Metrics:     middleware.NewMetrics(prometheus.DefaultRegisterer),
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&ready) != 1 {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := content.Ping(ctx); err != nil {
			http.Error(w, "mongo unavailable", http.StatusServiceUnavailable)
			return
		}

		if err := identity.Ping(ctx); err != nil {
			http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		lg.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		return err
	}

	lg.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	lg.Info("service_ready")

	var serveErr error

	select {
	case <-rootCtx.Done():
		lg.Info("shutdown_requested")
	case serveErr = <-serveErrCh:
		if serveErr != nil {
			lg.Error("http_serve_failed", slog.String("err", serveErr.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		lg.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		lg.Info("http_stopped")
	}

	lg.Info("service_stopped")

	return serveErr
}

// newNotifier — SMTP, а в local или без mail.host письма только логируются.
func newNotifier(cfg *config.Config) (*notify.SMTPMailer, error) {
	if cfg.Env == log.EnvLocal || cfg.Mail.Host == "" {
		return notify.NewSMTPMailer(cfg, notify.LogSender)
	}

	return notify.NewSMTPMailer(cfg, nil)
}
