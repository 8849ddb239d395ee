package db

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	embeddedmigrations "github.com/terraincognita07/tahara/migrations"
	"gorm.io/gorm"
)

var (
	migrationFileNamePattern = regexp.MustCompile(`^(\d+)_.*\.sql$`)
	alterAddColumnPattern    = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+([^\s]+)\s+ADD\s+COLUMN\s+([^\s]+)\b`)
)

type embeddedMigration struct {
	Version string
	Order   int
	Name    string
	SQL     string
}

// migrator applies the embedded SQL files in version order and records each
// one in schema_migrations. ADD COLUMN statements for columns that already
// exist are skipped so databases created before version tracking upgrade
// cleanly.
type migrator struct {
	database *gorm.DB
	logger   logrus.FieldLogger
}

func newMigrator(database *gorm.DB, logger logrus.FieldLogger) *migrator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &migrator{database: database, logger: logger.WithField("component", "migrations")}
}

func (m *migrator) apply() error {
	const createTrackingTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	if err := m.database.Exec(createTrackingTable).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	pending, err := loadEmbeddedMigrations()
	if err != nil {
		return err
	}

	var applied []string
	if err := m.database.Table("schema_migrations").Pluck("version", &applied).Error; err != nil {
		return fmt.Errorf("load applied migration versions: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, version := range applied {
		done[version] = true
	}

	for _, migration := range pending {
		if done[migration.Version] {
			continue
		}
		if err := m.applyOne(migration); err != nil {
			return err
		}
		m.logger.WithField("migration", migration.Name).Info("migration applied")
	}
	return nil
}

func (m *migrator) applyOne(migration embeddedMigration) error {
	statements := splitSQLStatements(migration.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s: %w", migration.Name, errors.New("no SQL statements"))
	}

	return m.database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range statements {
			present, err := addedColumnPresent(tx, statement)
			if err != nil {
				return fmt.Errorf("inspect migration %s: %w", migration.Name, err)
			}
			if present {
				m.logger.WithField("migration", migration.Name).Debug("column already present, skipping statement")
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", migration.Name, statement, err)
			}
		}

		err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`, migration.Version, migration.Name).Error
		if err != nil {
			return fmt.Errorf("record migration %s: %w", migration.Name, err)
		}
		return nil
	})
}

func loadEmbeddedMigrations() ([]embeddedMigration, error) {
	files, err := fs.ReadDir(embeddedmigrations.Files, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	migrations := make([]embeddedMigration, 0, len(files))
	byVersion := make(map[string]string, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := strings.TrimSpace(file.Name())
		match := migrationFileNamePattern.FindStringSubmatch(name)
		if match == nil {
			continue
		}

		version := match[1]
		if previous, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, previous, name)
		}
		byVersion[version] = name

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", name, err)
		}
		body, err := fs.ReadFile(embeddedmigrations.Files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		migrations = append(migrations, embeddedMigration{Version: version, Order: order, Name: name, SQL: string(body)})
	}

	sort.Slice(migrations, func(i, j int) bool {
		if migrations[i].Order != migrations[j].Order {
			return migrations[i].Order < migrations[j].Order
		}
		return migrations[i].Name < migrations[j].Name
	})
	return migrations, nil
}

// splitSQLStatements splits on ';'. Migration files must not contain
// semicolons inside string literals or triggers.
func splitSQLStatements(sqlText string) []string {
	statements := make([]string, 0)
	for _, part := range strings.Split(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

func addedColumnPresent(database *gorm.DB, statement string) (bool, error) {
	match := alterAddColumnPattern.FindStringSubmatch(strings.TrimSpace(statement))
	if match == nil {
		return false, nil
	}

	table := unquoteIdentifier(match[1])
	column := unquoteIdentifier(match[2])

	var columns []struct {
		Name string `gorm:"column:name"`
	}
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, strings.ReplaceAll(table, `"`, `""`))
	if err := database.Raw(query).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("load table_info for %s: %w", table, err)
	}
	for _, existing := range columns {
		if strings.EqualFold(strings.TrimSpace(existing.Name), column) {
			return true, nil
		}
	}
	return false, nil
}

func unquoteIdentifier(identifier string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(identifier), "\"`[]"))
}
