package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/tahara/internal/api"
	"github.com/terraincognita07/tahara/internal/cli"
	"github.com/terraincognita07/tahara/internal/config"
	"github.com/terraincognita07/tahara/internal/db"
	"github.com/terraincognita07/tahara/internal/logger"
	"github.com/terraincognita07/tahara/internal/scheduler"
	"github.com/terraincognita07/tahara/internal/services"
)

const shutdownTimeout = 10 * time.Second

const usage = `usage: tahara [command]

commands:
  serve                 run the HTTP API (default)
  token [subject]       print a bearer token for the API
  export                write the stored log as JSON to stdout
  import <file|->       merge a JSON export into the stored log
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg)

	if err := run(cfg, log, os.Args[1:]); err != nil {
		log.WithError(err).Fatal("tahara exited")
	}
}

func run(cfg *config.Config, log *logrus.Logger, args []string) error {
	command := "serve"
	if len(args) > 0 {
		command = strings.TrimSpace(args[0])
		args = args[1:]
	}

	ctx := context.Background()
	switch command {
	case "serve":
		return serve(cfg, log)
	case "token":
		subject := ""
		if len(args) > 0 {
			subject = args[0]
		}
		return cli.RunIssueTokenCommand(cfg, subject, os.Stdout)
	case "export":
		return cli.RunExportCommand(ctx, cfg, log, os.Stdout)
	case "import":
		if len(args) == 0 {
			return errors.New("import requires a file path or -")
		}
		input, closeInput, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer closeInput()
		return cli.RunImportCommand(ctx, cfg, log, input, os.Stdout)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func serve(cfg *config.Config, log *logrus.Logger) error {
	database, err := db.OpenSQLite(cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()

	repositories := db.NewRepositories(database)
	cycleLog := services.NewCycleLog(repositories.CycleEntries, log)
	defer cycleLog.Close()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()
	if err := cycleLog.Load(startupCtx); err != nil {
		return err
	}

	cycles := services.NewCycleService(cycleLog, cfg.CycleOptions())
	reminders := services.NewReminderService(cycles, services.NewLogNotifier(log), cfg.ReminderLeadDays, log)
	reminderScheduler := scheduler.New(reminders, cfg.ReminderCron, cfg.Location, log)
	if err := reminderScheduler.Start(); err != nil {
		return err
	}
	defer reminderScheduler.Stop()

	handler, err := api.NewHandler(cycles, cfg.SecretKey, cfg.Location, log)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := newApp(cfg, log, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":          cfg.Port,
		"db":            cfg.DBPath,
		"tz":            cfg.Location.String(),
		"boundary_mode": cfg.BoundaryMode,
	}).Info("tahara listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}

	flushCtx, cancelFlush := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelFlush()
	if err := cycleLog.Flush(flushCtx); err != nil {
		log.WithError(err).Error("final cycle log write failed")
	}
	return nil
}

func newApp(cfg *config.Config, log *logrus.Logger, handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Tahara",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Output: log.WriterLevel(logrus.InfoLevel),
		Format: "${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(compress.New())
	if origins := cfg.CORSOrigins; origins != "" {
		app.Use(cors.New(corsConfig(origins)))
	}

	api.RegisterRoutes(app, handler)
	return app
}

func corsConfig(origins string) cors.Config {
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Authorization,Content-Type",
		MaxAge:       int((12 * time.Hour).Seconds()),
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open import file: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}
