package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// migration — одна up-миграция.
type migration struct {
	version int
	name    string
	sql     string
}

// loadMigrations читает *.up.sql из fsys и сортирует по номеру версии.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, err
	}

	out := make([]migration, 0, len(entries))
	for _, name := range entries {
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("migration %q: expected <version>_<name>.up.sql", name)
		}

		v, err := strconv.Atoi(prefix)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("migration %q: bad version %q", name, prefix)
		}

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("migration %q: %w", name, err)
		}

		out = append(out, migration{version: v, name: name, sql: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })

	for i := 1; i < len(out); i++ {
		if out[i].version == out[i-1].version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].version)
		}
	}

	return out, nil
}

// Migrate применяет ещё не применённые миграции, каждую в своей транзакции.
// Возвращает имена применённых файлов.
func (s *Storage) Migrate(ctx context.Context, fsys fs.FS) ([]string, error) {
	const op = "storage/postgres/Migrate"

	list, err := loadMigrations(fsys)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	const ddl = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	if _, err := s.db.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("%s: schema_migrations: %w", op, err)
	}

	var applied []string
	for _, m := range list {
		ok, err := s.applyMigration(ctx, m)
		if err != nil {
			return applied, fmt.Errorf("%s: %s: %w", op, m.name, err)
		}

		if ok {
			applied = append(applied, m.name)
		}
	}

	return applied, nil
}

func (s *Storage) applyMigration(ctx context.Context, m migration) (bool, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `INSERT INTO schema_migrations(version) VALUES ($1) ON CONFLICT DO NOTHING`, m.version)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, m.sql); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	return true, nil
}
