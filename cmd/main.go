package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whatsapp_crm/internal/config"
	"whatsapp_crm/internal/infrastructure"
	"whatsapp_crm/internal/interfaces"
	httpapi "whatsapp_crm/internal/interfaces/http"
	"whatsapp_crm/internal/repository"
	"whatsapp_crm/internal/usecases"
	"whatsapp_crm/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// stores bundles the repositories of whichever database driver is configured.
type stores struct {
	messages interfaces.MessageStore
	students interfaces.StudentStore
	tenants  interfaces.TenantStore
	db       interfaces.Pinger
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Logging.Level, File: cfg.Logging.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	whatsapp := infrastructure.NewWhatsAppCloudClient(infrastructure.WhatsAppCloudConfig{
		BaseURL:       cfg.WhatsApp.BaseURL,
		APIVersion:    cfg.WhatsApp.APIVersion,
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
		AccessToken:   cfg.WhatsApp.AccessToken,
		Timeout:       cfg.WhatsApp.Timeout,
	}, log)

	resolver := usecases.NewReplyResolver(usecases.NewRuleTable(usecases.DefaultRules()), usecases.StaticFallback{}, log)
	tenantResolver := usecases.NewTenantResolver(st.tenants, cfg.DefaultTenantID)
	messageService := usecases.NewMessageService(st.messages, whatsapp, tenantResolver, resolver, log)

	if cfg.Telegram.BotToken != "" {
		notifier, err := infrastructure.NewTelegramNotifier(cfg.Telegram.BotToken, "", cfg.Telegram.AlertChatID, cfg.Telegram.Timeout, log)
		if err != nil {
			log.Warn("telegram alerts disabled", zap.Error(err))
		} else {
			messageService.WithNotifier(notifier)
		}
	}

	dashboardUsecase := usecases.NewDashboardUsecase(st.messages, st.students)
	authUsecase := usecases.NewAuthUsecase(st.tenants, cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, tenant API is unauthenticated")
	}

	sweeper := usecases.NewFollowupSweeper(st.messages, whatsapp, usecases.FollowupConfig{
		Interval: cfg.Followup.Interval,
		After:    cfg.Followup.After,
	}, log)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	handler := httpapi.NewHandler(messageService, dashboardUsecase, authUsecase, st.db, cfg.WhatsApp.VerifyToken, log)
	httpapi.SetupRoutes(r, handler, httpapi.NewMiddleware(cfg.JWTSecret, log), httpapi.RateLimit{
		PerSecond: cfg.RateLimit.PerSecond,
		Burst:     cfg.RateLimit.Burst,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr), zap.String("db_driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serveErr:
		stop()
		wg.Wait()
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown", zap.Error(err))
	}
	wg.Wait()
	log.Info("server stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pg, err := infrastructure.NewPostgresClient(ctx, cfg.Database.URL, log)
		if err != nil {
			return nil, err
		}
		return &stores{
			messages: repository.NewMessageRepository(pg.Pool),
			students: repository.NewStudentRepository(pg.Pool),
			tenants:  repository.NewTenantRepository(pg.Pool),
			db:       pg,
			close:    pg.Close,
		}, nil
	default:
		lite, err := infrastructure.NewSQLiteClient(ctx, cfg.Database.URL, log)
		if err != nil {
			return nil, err
		}
		return &stores{
			messages: repository.NewSQLiteMessageRepository(lite.DB),
			students: repository.NewSQLiteStudentRepository(lite.DB),
			tenants:  repository.NewSQLiteTenantRepository(lite.DB),
			db:       lite,
			close: func() {
				if err := lite.Close(); err != nil {
					log.Warn("closing sqlite", zap.Error(err))
				}
			},
		}, nil
	}
}
