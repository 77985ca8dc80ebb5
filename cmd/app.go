package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/qrave1/MeetPlanner/internal/application/config"
	"github.com/qrave1/MeetPlanner/internal/application/constant"
	"github.com/qrave1/MeetPlanner/internal/application/logger"
	"github.com/qrave1/MeetPlanner/internal/application/metric"
	"github.com/qrave1/MeetPlanner/internal/infra/adapters/jwtauth"
	"github.com/qrave1/MeetPlanner/internal/infra/adapters/memory"
	"github.com/qrave1/MeetPlanner/internal/infra/adapters/notify"
	"github.com/qrave1/MeetPlanner/internal/infra/adapters/postgres"
	"github.com/qrave1/MeetPlanner/internal/infra/adapters/postgres/repository"
	"github.com/qrave1/MeetPlanner/internal/infra/ports/http/handlers"
	"github.com/qrave1/MeetPlanner/internal/infra/ports/http/server"
	"github.com/qrave1/MeetPlanner/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type storage struct {
	meetings usecase.MeetingStore
	users    usecase.UserLister
	ping     func(ctx context.Context) error
	close    func() error
}

func runApp() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	log, logCloser, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logCloser.Close()

	slog.SetDefault(log)

	slog.Info("Running app", slog.Bool("debug", cfg.Debug), slog.String("storage", cfg.Storage))

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer store.close()

	var (
		notifier   usecase.Notifier
		mailSender *notify.MailNotifier
	)

	if cfg.SMTP.Enabled() {
		mailSender, err = notify.NewMailNotifier(cfg.SMTP, log)
		if err != nil {
			return fmt.Errorf("init mail notifier: %w", err)
		}

		notifier = mailSender
	} else {
		slog.Warn("SMTP_HOST is empty, mails are only logged")
		notifier = notify.NewLogNotifier(log)
	}

	userTokens := jwtauth.NewVerifier(cfg.UserJWTSecret)
	adminTokens := jwtauth.NewVerifier(cfg.AdminJWTSecret)

	wsConnRepo := memory.NewWSConnectionRepository(memory.WithWriteTimeout(cfg.WriteTimeout))
	roomRepo := memory.NewRoomRepository()
	sessionRepo := memory.NewSessionRepository()

	router := usecase.NewRoomRouter(wsConnRepo, roomRepo)
	reminders := memory.NewReminderRepository(usecase.NewReminderUsecase(notifier, router), time.Now)

	sessionUsecase := usecase.NewSessionUsecase(userTokens, adminTokens, sessionRepo, router)
	meetingUsecase := usecase.NewMeetingUsecase(
		store.meetings,
		usecase.NewConflictChecker(store.meetings),
		router,
		notifier,
		reminders,
		cfg.ReminderLead,
	)
	listingUsecase := usecase.NewListingUsecase(store.users, store.meetings, time.Now)

	meetingHandler := handlers.NewMeetingHandler(listingUsecase)
	wsHandler := handlers.NewWebSocketHandler(cfg, sessionUsecase, meetingUsecase, router, wsConnRepo)

	echoSrv := server.New(userTokens, adminTokens, meetingHandler, wsHandler)
	metricsSrv := metric.NewServer(metric.HealthCheck{Name: "storage", Check: store.ping})

	g, gCtx := errgroup.WithContext(ctx)

	// Запускаем HTTP сервер
	g.Go(func() error {
		if err := echoSrv.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", slog.Any(constant.Error, err))
			return err
		}
		return nil
	})

	// Запускаем сервер метрик
	g.Go(func() error {
		if err := metricsSrv.Start(":" + cfg.MetricPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", slog.Any(constant.Error, err))
			return err
		}
		return nil
	})

	if mailSender != nil {
		g.Go(func() error {
			return mailSender.Run(gCtx)
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()

		slog.Info("Shutting down servers")

		timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer timeoutCancel()

		if err := echoSrv.Shutdown(timeoutCtx); err != nil {
			slog.Error("Failed to gracefully shutdown HTTP server", slog.Any(constant.Error, err))
		}

		if err := metricsSrv.Shutdown(timeoutCtx); err != nil {
			slog.Error("Failed to gracefully shutdown metric server", slog.Any(constant.Error, err))
		}

		reminders.Stop()

		return nil
	})

	return g.Wait()
}

func newStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		slog.Warn("using in-memory storage, meetings are lost on restart")

		return &storage{
			meetings: memory.NewMeetingRepository(),
			users:    memory.NewUserRepository(),
			ping:     func(ctx context.Context) error { return nil },
			close:    func() error { return nil },
		}, nil
	}

	dbConn, err := postgres.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, err
	}

	return &storage{
		meetings: repository.NewMeetingRepo(dbConn),
		users:    repository.NewUserRepo(dbConn),
		ping:     dbConn.PingContext,
		close:    dbConn.Close,
	}, nil
}
