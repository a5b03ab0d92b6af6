package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medintake/config"
	_ "medintake/docs"
	"medintake/internal/events"
	"medintake/internal/repository"
	"medintake/internal/service"
	"medintake/internal/storage"
	"medintake/internal/transport/rest"
	"medintake/pkg/database"
	"medintake/pkg/logger"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Doctor Intake API
// @version 1.0
// @description Doctor profile intake: picture upload and record persistence

// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	blobs, err := storage.NewBlobStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize blob store", zap.Error(err))
	}
	log.Info("blob store initialized",
		zap.String("provider", cfg.Storage.BlobProvider),
		zap.String("bucket", cfg.S3.Bucket),
	)

	records, closeRecords, err := newRecordStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize record store", zap.Error(err))
	}
	defer closeRecords()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP, log)
		if err != nil {
			log.Fatal("failed to connect to message broker", zap.Error(err))
		}
		publisher = amqpPublisher
		log.Info("doctor events enabled", zap.String("exchange", cfg.AMQP.Exchange))
	} else {
		log.Warn("AMQP_URL is not set, doctor events are disabled")
	}
	defer publisher.Close()

	services := service.NewServices(service.Deps{
		Records:   records,
		Blobs:     blobs,
		Publisher: publisher,
		Logger:    log,
		Config:    cfg,
	})

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go services.Intake.RunSweeper(sweepCtx, cfg.Intake.SessionTTL/2)

	handler := rest.NewHandler(services, log, cfg)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler.InitRoutes(router)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
		return
	}

	log.Info("server stopped")
}

func newRecordStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.RecordStore, func(), error) {
	switch cfg.Storage.RecordStore {
	case config.RecordStorePostgres:
		db, err := database.NewPostgresDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}

		log.Info("running database migrations")
		if err := database.RunMigrations(ctx, db, cfg.Postgres.MigrationsDir, log); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("database migrations applied")

		return repository.NewPostgresRecordStore(db), db.Close, nil

	case config.RecordStoreMongo:
		client, db, err := database.NewMongoDB(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		log.Info("connected to mongodb", zap.String("database", cfg.Mongo.Database))

		return repository.NewMongoRecordStore(db), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn("mongodb disconnect failed", zap.Error(err))
			}
		}, nil
	}

	log.Warn("using in-memory record store, records are lost on restart")
	return repository.NewMemoryRecordStore(), func() {}, nil
}
