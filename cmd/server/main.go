package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	appcfg "github.com/painelquick/backend/internal/config"
	"github.com/painelquick/backend/internal/httpserver"
	"github.com/painelquick/backend/internal/middleware/auth"
	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/internal/notify"
	"github.com/painelquick/backend/internal/repo"
	"github.com/painelquick/backend/internal/search"
	"github.com/painelquick/backend/internal/service"
	"github.com/painelquick/backend/internal/storage"
	pkgdb "github.com/painelquick/backend/pkg/db"
	"github.com/painelquick/backend/pkg/kafka"
	"github.com/painelquick/backend/pkg/logging"
	"github.com/painelquick/backend/pkg/middleware/ratelimit"
)

const seenTTL = 24 * time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := appcfg.Load()

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	r := repo.New(db)

	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	root = logging.IntoContext(root, logger)

	hub := notify.NewHub(logger, cfg.CORSOrigins)
	sinks := []notify.Sink{hub}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		sinks = append(sinks, &notify.KafkaSink{Producer: producer, Topic: cfg.OrderEventsTopic})
	}

	var seen notify.Seen = notify.NewMemorySeen(seenTTL)
	if cfg.RedisURL != "" {
		rs, err := notify.NewRedisSeen(cfg.RedisURL, seenTTL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rs.Close()
		seen = rs
	}
	dispatcher := notify.NewDispatcher(seen, logger, sinks...)

	catalog := &service.CatalogService{Repo: r}
	if cfg.ESURL != "" {
		esCtx, esCancel := context.WithTimeout(root, 5*time.Second)
		products, err := search.Connect(esCtx, search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESProductsIndex,
		}, logger)
		esCancel()
		if err != nil {
			logger.Warn("es_unavailable", "error", err)
		} else {
			catalog.Index = products
			catalog.Searcher = &search.WithFallback{Primary: products, Secondary: r, Log: logger}
		}
	}

	uploads, err := storage.NewLocal(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		log.Fatalf("uploads: %v", err)
	}

	history := service.HistoryMode{AtPlacement: cfg.HistoryAtPlacement(), AtCompletion: cfg.HistoryAtCompletion()}
	users := &service.UserService{Repo: r}
	orders := &service.OrderService{Repo: r, Notifier: dispatcher, History: history}

	poller := notify.NewPoller(r, dispatcher, cfg.PollInterval, logger)
	if err := poller.Start(root); err != nil {
		log.Fatalf("poller: %v", err)
	}
	if cfg.PGNotify {
		if err := notify.InstallTrigger(root, r); err != nil {
			logger.Warn("pg_trigger_error", "error", err)
		} else {
			waker := &notify.PGWaker{DSN: cfg.DatabaseURL, Wake: poller.Trigger, Logger: logger}
			go func() {
				if err := waker.Run(root); err != nil {
					logger.Error("pg_listener_stopped", "error", err)
				}
			}()
		}
	}

	limiter := ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow)
	go func() {
		t := time.NewTicker(cfg.RateLimitWindow)
		defer t.Stop()
		for {
			select {
			case <-root.Done():
				return
			case <-t.C:
				limiter.Cleanup()
			}
		}
	}()

	e := httpserver.New(httpserver.Options{
		Logger:      logger,
		Development: cfg.IsDevelopment(),
		CORSOrigins: cfg.CORSOrigins,
	})
	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc:          &service.AuthService{Repo: r, JWTSecret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL},
			Users:        users,
			SecureCookie: !cfg.IsDevelopment(),
		},
		Users:   &httpserver.UserHTTP{Svc: users, Addresses: &service.AddressService{Repo: r}},
		Catalog: &httpserver.CatalogHTTP{Svc: catalog, Uploads: uploads},
		Orders:  &httpserver.OrderHTTP{Svc: orders},
		Establishment: &httpserver.EstablishmentHTTP{
			Svc:       &service.EstablishmentService{Repo: r},
			Orders:    orders,
			Delivery:  &service.DeliveryService{Repo: r, Notifier: dispatcher},
			Dashboard: &service.DashboardService{Repo: r},
			Uploads:   uploads,
		},
		WS:        hub.ServeWS,
		Guard:     auth.NewGuard(r, cfg.JWTSecret),
		Limiter:   limiter,
		UploadDir: cfg.UploadDir,
		Ready:     r.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-root.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	poller.Stop()
	hub.Close()
	_ = srv.Shutdown(shutdownCtx)
	if producer != nil {
		_ = producer.Close()
	}
	pkgdb.Close(db)

	logger.Info("stopped")
}
