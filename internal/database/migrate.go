package database

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"pdfquiz/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// DefaultMigrationsDir is relative to the repository root.
const DefaultMigrationsDir = "database/migrations"

// ORA-00955: name is already used by an existing object.
const oraObjectExists = "ORA-00955"

// Direction selects the *.up.sql or *.down.sql files.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// RunMigrations executes every migration file of the given direction in name order
// (reverse order for Down). Each file holds one statement without a trailing semicolon.
// Up migrations that hit an existing object are skipped, so re-running is safe.
func RunMigrations(ctx context.Context, db *sqlx.DB, migrations fs.FS, direction Direction) error {
	l := logger.Get()
	suffix := "." + string(direction) + ".sql"

	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if direction == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	for _, name := range names {
		content, err := fs.ReadFile(migrations, name)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}

		stmt := strings.TrimSuffix(strings.TrimSpace(string(content)), ";")
		if stmt == "" {
			continue
		}

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if direction == Up && strings.Contains(err.Error(), oraObjectExists) {
				l.Info("Migration already applied", zap.String("file", name))
				continue
			}
			return fmt.Errorf("could not execute migration %s: %w", name, err)
		}
		l.Info("Executed migration", zap.String("file", name))
	}

	l.Info("Migrations completed", zap.String("direction", string(direction)), zap.Int("files", len(names)))
	return nil
}

// DirFS opens a migrations directory on disk.
func DirFS(dir string) fs.FS {
	return os.DirFS(dir)
}
