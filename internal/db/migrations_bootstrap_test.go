package db

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	embeddedmigrations "github.com/terraincognita07/tahara/migrations"
	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "tahara-clean.db")
	database := openSQLiteForTest(t, databasePath)

	assertCycleEntriesSchemaReconciled(t, database)
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteUpgradesLegacyInitSchema(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "tahara-legacy.db")
	seedLegacyInitSchema(t, databasePath)

	database := openSQLiteForTest(t, databasePath)

	assertCycleEntriesSchemaReconciled(t, database)
	assertAllEmbeddedMigrationsApplied(t, database)

	var migrated struct {
		DayType string `gorm:"column:day_type"`
	}
	if err := database.Table("cycle_entries").Select("day_type").Where("date = ?", "2026-01-10").First(&migrated).Error; err != nil {
		t.Fatalf("load migrated legacy entry: %v", err)
	}
	if migrated.DayType != "period-light" {
		t.Fatalf("expected legacy day_type to survive, got %q", migrated.DayType)
	}
}

func TestOpenSQLiteSkipsColumnsAlreadyPresent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "tahara-partial.db")
	legacy := openRawSQLite(t, databasePath)
	if err := legacy.Exec(`CREATE TABLE cycle_entries (id INTEGER PRIMARY KEY AUTOINCREMENT, date TEXT NOT NULL, day_type TEXT NOT NULL DEFAULT 'normal', created_at DATETIME, updated_at DATETIME)`).Error; err != nil {
		t.Fatalf("create partial schema: %v", err)
	}
	closeGormDB(t, legacy)

	database := openSQLiteForTest(t, databasePath)
	assertCycleEntriesSchemaReconciled(t, database)
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "tahara-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath, quietTestLogger())
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords := loadMigrationRecords(t, firstOpen)
	closeGormDB(t, firstOpen)

	secondOpen := openSQLiteForTest(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestSplitSQLStatements(t *testing.T) {
	statements := splitSQLStatements("CREATE TABLE a (id INTEGER);\n\n ; CREATE INDEX b ON a(id);  ")
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(statements), statements)
	}
	if statements[1] != "CREATE INDEX b ON a(id)" {
		t.Fatalf("unexpected second statement %q", statements[1])
	}
}

func quietTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func openSQLiteForTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath, quietTestLogger())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

func openRawSQLite(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
	if err != nil {
		t.Fatalf("open raw sqlite: %v", err)
	}
	return database
}

func closeGormDB(t *testing.T, database *gorm.DB) {
	t.Helper()

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close sql db: %v", err)
	}
}

func seedLegacyInitSchema(t *testing.T, databasePath string) {
	t.Helper()

	database := openRawSQLite(t, databasePath)
	defer closeGormDB(t, database)

	initSQL, err := fs.ReadFile(embeddedmigrations.Files, "0001_create_cycle_entries.sql")
	if err != nil {
		t.Fatalf("read 0001 migration: %v", err)
	}
	for _, statement := range splitSQLStatements(string(initSQL)) {
		if err := database.Exec(statement).Error; err != nil {
			t.Fatalf("apply 0001 migration: %v", err)
		}
	}

	if err := database.Exec(
		`INSERT INTO cycle_entries (date, day_type, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		"2026-01-10",
		"period-light",
	).Error; err != nil {
		t.Fatalf("insert legacy entry: %v", err)
	}
}

func assertCycleEntriesSchemaReconciled(t *testing.T, database *gorm.DB) {
	t.Helper()

	columns := loadTableColumns(t, database, "cycle_entries")
	for _, column := range []string{"id", "date", "day_type", "created_at", "updated_at"} {
		if _, ok := columns[column]; !ok {
			t.Fatalf("expected cycle_entries.%s to exist, got %v", column, columns)
		}
	}

	indexSQL := loadSQLiteObjectSQL(t, database, "index", "uidx_cycle_entries_date")
	if !strings.Contains(strings.ToUpper(indexSQL), "UNIQUE") {
		t.Fatalf("expected unique date index, got %q", indexSQL)
	}
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	expectedVersions := embeddedMigrationVersionsForTest(t)
	actualVersions := make([]string, 0)

	var rows []struct {
		Version string `gorm:"column:version"`
	}
	if err := database.Raw(`SELECT version FROM schema_migrations ORDER BY version ASC`).Scan(&rows).Error; err != nil {
		t.Fatalf("load applied migration versions: %v", err)
	}
	for _, row := range rows {
		actualVersions = append(actualVersions, row.Version)
	}

	if !reflect.DeepEqual(expectedVersions, actualVersions) {
		t.Fatalf("unexpected applied migration versions: expected=%v actual=%v", expectedVersions, actualVersions)
	}
}

type migrationRecord struct {
	Version   string `gorm:"column:version"`
	Name      string `gorm:"column:name"`
	AppliedAt string `gorm:"column:applied_at"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []migrationRecord {
	t.Helper()

	records := make([]migrationRecord, 0)
	if err := database.Raw(
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version ASC`,
	).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func loadTableColumns(t *testing.T, database *gorm.DB, tableName string) map[string]struct{} {
	t.Helper()

	escapedTable := strings.ReplaceAll(tableName, `"`, `""`)
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, escapedTable)

	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(query).Scan(&rows).Error; err != nil {
		t.Fatalf("load table columns for %s: %v", tableName, err)
	}

	columns := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}
	return columns
}

func loadSQLiteObjectSQL(t *testing.T, database *gorm.DB, objectType string, objectName string) string {
	t.Helper()

	var row struct {
		SQL string `gorm:"column:sql"`
	}
	if err := database.Raw(
		`SELECT sql FROM sqlite_master WHERE type = ? AND name = ?`,
		objectType,
		objectName,
	).Scan(&row).Error; err != nil {
		t.Fatalf("load sqlite master sql for %s %s: %v", objectType, objectName, err)
	}
	return row.SQL
}

func embeddedMigrationVersionsForTest(t *testing.T) []string {
	t.Helper()

	migrations, err := loadEmbeddedMigrations()
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}

	versions := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		versions = append(versions, migration.Version)
	}
	return versions
}
