package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/tahara/internal/config"
	"github.com/terraincognita07/tahara/internal/db"
	"github.com/terraincognita07/tahara/internal/security"
	"github.com/terraincognita07/tahara/internal/services"
)

// RunIssueTokenCommand prints a bearer token for the API.
func RunIssueTokenCommand(cfg *config.Config, subject string, out io.Writer) error {
	issued, err := security.IssueToken([]byte(cfg.SecretKey), subject, cfg.TokenTTL, time.Now())
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	fmt.Fprintln(out, issued.Token)
	fmt.Fprintf(out, "Token id: %s\n", issued.ID)
	fmt.Fprintf(out, "Expires: %s\n", issued.ExpiresAt.In(cfg.Location).Format(time.RFC3339))
	return nil
}

// RunExportCommand writes the stored log as JSON, keys in date order.
func RunExportCommand(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger, out io.Writer) error {
	repo, closeDB, err := openRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	entries, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load cycle log: %w", err)
	}

	body, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cycle log: %w", err)
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}

// RunImportCommand merges a JSON export into the stored log and waits until
// it is written.
func RunImportCommand(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger, in io.Reader, out io.Writer) error {
	serialized := map[string]string{}
	if err := json.NewDecoder(in).Decode(&serialized); err != nil {
		return fmt.Errorf("decode import file: %w", err)
	}

	repo, closeDB, err := openRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	cycleLog := services.NewCycleLog(repo, logger)
	defer cycleLog.Close()
	if err := cycleLog.Load(ctx); err != nil {
		return err
	}

	result, err := cycleLog.Import(serialized)
	if err != nil {
		return fmt.Errorf("import cycle log: %w", err)
	}
	if err := cycleLog.Flush(ctx); err != nil {
		return fmt.Errorf("write cycle log: %w", err)
	}

	fmt.Fprintf(out, "Imported %d entries, skipped %d\n", result.Imported, result.Skipped)
	for _, raw := range result.Invalid {
		fmt.Fprintf(out, "  invalid date: %q\n", raw)
	}
	return nil
}

func openRepository(cfg *config.Config, logger logrus.FieldLogger) (*db.CycleEntryRepository, func(), error) {
	database, err := db.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("database handle: %w", err)
	}
	return db.NewRepositories(database).CycleEntries, func() { _ = sqlDB.Close() }, nil
}
