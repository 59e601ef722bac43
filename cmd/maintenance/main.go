// Command maintenance runs one-shot data jobs against the database.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	appcfg "github.com/painelquick/backend/internal/config"
	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/repo"
	"github.com/painelquick/backend/internal/service"
	pkgdb "github.com/painelquick/backend/pkg/db"
	"github.com/painelquick/backend/pkg/logging"
)

func main() {
	migratePasswords := flag.Bool("migrate-passwords", false, "bcrypt-hash every password that is not a hash yet")
	repairHistory := flag.Bool("repair-history", false, "write missing delivery history rows")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall time limit")
	flag.Parse()

	if !*migratePasswords && !*repairHistory {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}
	cfg := appcfg.LoadForJobs()

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", cfg.ServiceName+"-maintenance")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = logging.IntoContext(ctx, logger)

	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer pkgdb.Close(db)
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	r := repo.New(db)

	failed := false
	if *migratePasswords {
		auth := &service.AuthService{Repo: r}
		rep, err := auth.MigrateLegacyPasswords(ctx)
		if err != nil {
			logger.Error("migrate_passwords_error", "scanned", rep.Scanned, "migrated", rep.Migrated, "error", err)
			failed = true
		} else {
			logger.Info("migrate_passwords_done", "scanned", rep.Scanned, "migrated", rep.Migrated)
		}
	}
	if *repairHistory {
		orders := &service.OrderService{
			Repo:    r,
			History: service.HistoryMode{AtPlacement: cfg.HistoryAtPlacement(), AtCompletion: cfg.HistoryAtCompletion()},
		}
		n, err := orders.RepairHistory(ctx)
		if err != nil {
			logger.Error("repair_history_error", "written", n, "error", err)
			failed = true
		} else {
			logger.Info("repair_history_done", "written", n)
		}
	}
	if failed {
		pkgdb.Close(db)
		os.Exit(1)
	}
}
