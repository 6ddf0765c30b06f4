package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Vladiumnika/forumblackdynasty/internal/config"
	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/Vladiumnika/forumblackdynasty/internal/pkg/log"
	"github.com/Vladiumnika/forumblackdynasty/internal/service"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage/postgres"
	"github.com/Vladiumnika/forumblackdynasty/migrations"
)

func main() {
	app := &cli.App{
		Name:  "forum-service",
		Usage: "Black Dynasty forum backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to config file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start http server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply PostgreSQL migrations",
				Action: migrate,
			},
			{
				Name:      "set-role",
				Usage:     "assign a role to a user by email",
				ArgsUsage: "<email> <user|moderator|admin>",
				Action:    setRole,
			},
			{
				Name:   "cleanup-sessions",
				Usage:  "delete expired refresh sessions",
				Action: cleanupSessions,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("forum-service failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

// bootstrap загружает конфиг и ставит корневой логгер.
func bootstrap(c *cli.Context) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	lg := log.New(cfg.Env, os.Stdout)
	slog.SetDefault(lg)

	return cfg, lg, nil
}

func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
}

func migrate(c *cli.Context) error {
	cfg, lg, err := bootstrap(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	pg, err := postgres.New(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pg.Close()

	applied, err := pg.Migrate(ctx, migrations.FS)
	if err != nil {
		return err
	}

	lg.Info("migrations_applied", slog.Int("count", len(applied)), slog.Any("files", applied))

	return nil
}

func setRole(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: forum-service set-role <email> <user|moderator|admin>", 2)
	}

	cfg, lg, err := bootstrap(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	pg, err := postgres.New(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pg.Close()

	svc := service.New(cfg, service.Deps{Identity: pg})

	summary, err := svc.AssignRole(log.Into(ctx, lg), c.Args().Get(0), models.Role(c.Args().Get(1)))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s (%s) is now %s\n", summary.Username, summary.ID, summary.Role)

	return nil
}

func cleanupSessions(c *cli.Context) error {
	cfg, lg, err := bootstrap(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	pg, err := postgres.New(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.DeleteExpiredSessions(ctx, time.Now().UTC()); err != nil {
		return err
	}

	lg.Info("expired_sessions_deleted")

	return nil
}
