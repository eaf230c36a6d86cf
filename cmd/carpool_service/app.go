package carpoolservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"kids-carpool/internal/general/cache"
	"kids-carpool/internal/general/config"
	"kids-carpool/internal/general/jwt"
	"kids-carpool/internal/general/logger"
	"kids-carpool/internal/general/postgres"
	"kids-carpool/internal/general/rabbitmq"
	bookinghandler "kids-carpool/internal/software/booking/handler"
	bookingservice "kids-carpool/internal/software/booking/service"
	cataloghandler "kids-carpool/internal/software/catalog/handler"
	catalogservice "kids-carpool/internal/software/catalog/service"
	directoryhandler "kids-carpool/internal/software/directory/handler"
	directoryservice "kids-carpool/internal/software/directory/service"
	ratinghandler "kids-carpool/internal/software/rating/handler"
	ratingservice "kids-carpool/internal/software/rating/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run wires the carpool service and blocks until ctx is cancelled.
func Run(ctx context.Context, maxConcurrent int) error {
	// static request ID for startup logs
	logger := logger.New("carpool-service")
	ctx = logger.WithRequestID(ctx, "startup-001")

	cfg, err := config.LoadFromFile("config/config.yaml")
	if err != nil {
		logger.Error(ctx, "config_load_failed", "Failed to load configuration", err, nil)
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err, nil)
		return err
	}
	defer pool.Close()

	rmq, err := rabbitmq.ConnectRabbitMQ(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err, nil)
		return err
	}
	defer rmq.Close()

	pub := rabbitmq.NewMQPublisher(rmq)

	// listing cache; nil when Redis is down, which disables caching only
	listingCache := cache.Connect(ctx, cfg, logger)
	defer listingCache.Close()

	jwtManager := jwt.NewManager(cfg.JWT.SecretKey, 2*time.Hour)

	// repositories
	uow := postgres.NewUnitOfWork(pool)
	rideRepo := postgres.NewRideRepo()
	requestRepo := postgres.NewRequestRepo()
	ratingRepo := postgres.NewRatingRepo()
	userRepo := postgres.NewUserRepo()
	childRepo := postgres.NewChildRepo()
	schoolRepo := postgres.NewSchoolRepo()
	messageRepo := postgres.NewMessageRepo()

	// services
	catalog := catalogservice.NewCatalogService(logger, uow, rideRepo, schoolRepo, listingCache, pub)
	booking := bookingservice.NewBookingService(logger, uow, requestRepo, rideRepo, childRepo, catalog, pub)
	ratings := ratingservice.NewRatingService(logger, uow, ratingRepo, requestRepo, rideRepo, userRepo, pub)
	directory := directoryservice.NewDirectoryService(logger, uow, userRepo, childRepo, schoolRepo, messageRepo, jwtManager)

	// HTTP surface
	mux := http.NewServeMux()
	cataloghandler.NewCatalogHTTPHandler(catalog, logger, jwtManager).RegisterRoutes(mux)
	bookinghandler.NewBookingHTTPHandler(booking, logger, jwtManager).RegisterRoutes(mux)
	ratinghandler.NewRatingHTTPHandler(ratings, logger, jwtManager).RegisterRoutes(mux)
	directoryhandler.NewDirectoryHTTPHandler(directory, logger, jwtManager).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	// concurrency limiter (global); blocks when capacity is full
	limitedHandler := withConcurrencyLimit(maxConcurrent, mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           limitedHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger.Info(ctx, "service_started",
		fmt.Sprintf("Carpool Service started on port %d", cfg.HTTP.Port),
		map[string]any{"port": cfg.HTTP.Port, "max_concurrent": maxConcurrent},
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		// graceful HTTP shutdown on context cancel
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info(ctx, "shutdown_started", "Carpool Service shutting down", nil)
		if err := srv.Shutdown(shCtx); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_shutdown_failed", "Failed to gracefully shut down HTTP server", err, nil)
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_server_error", "HTTP server terminated with error", err, map[string]any{"port": cfg.HTTP.Port})
			return err
		}
		return nil
	}

	return nil
}

// withConcurrencyLimit wraps an http.Handler with a semaphore-based limiter.
// It controls how many HTTP requests can be in-progress at the same time.
func withConcurrencyLimit(n int, next http.Handler) http.Handler {
	if n <= 0 {
		return next
	}
	sem := make(chan struct{}, n)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case sem <- struct{}{}: // acquire
			defer func() { <-sem }() // release
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
			// client canceled or server is shutting down
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	})
}
