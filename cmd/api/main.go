package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/medbook/booking-engine/internal/cache"
	"github.com/medbook/booking-engine/internal/config"
	"github.com/medbook/booking-engine/internal/event/kafka"
	v1 "github.com/medbook/booking-engine/internal/handler/v1"
	"github.com/medbook/booking-engine/internal/repository/postgres"
	"github.com/medbook/booking-engine/internal/service"
	"github.com/medbook/booking-engine/pkg/database"
	"github.com/medbook/booking-engine/pkg/logger"
	"github.com/medbook/booking-engine/pkg/metrics"
	"github.com/medbook/booking-engine/pkg/tracer"

	"github.com/medbook/booking-engine/internal/domain/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	producer, err := kafka.NewProducer(cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer producer.Close() //nolint:errcheck

	collector := metrics.NewCollector("booking")

	availability, err := cache.NewAvailability(cfg.Cache.Size, cfg.Cache.TTL, log)
	if err != nil {
		return err
	}
	availability.WithMetrics(collector.CacheHitsTotal, collector.CacheMissesTotal)

	slotRepo := postgres.NewScheduleRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)

	validator, err := schedule.NewValidator(slotRepo, cfg.Hours.Opening, cfg.Hours.Closing, cfg.Hours.StepMinutes)
	if err != nil {
		return err
	}

	emitter := service.NewEmitter(producer, cfg.Kafka.EmitBuffer, log).
		WithMetrics(collector.EventsPublishedTotal, collector.EventPublishFailures)
	defer emitter.Shutdown()

	scheduleSvc := service.NewScheduleService(slotRepo, doctorRepo, validator, availability, log)
	bookingSvc := service.NewBookingService(slotRepo, doctorRepo, patientRepo, availability, emitter, log)
	doctorSvc := service.NewDoctorService(doctorRepo, log)
	patientSvc := service.NewPatientService(patientRepo, log)

	router := v1.NewRouter(
		v1.NewScheduleHandler(scheduleSvc, collector),
		v1.NewBookingHandler(bookingSvc, collector),
		v1.NewIdentityHandler(doctorSvc, patientSvc),
		collector,
		log,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("address", srv.Addr),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
