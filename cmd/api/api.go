package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RockkLee/order-bot/docs"
	"github.com/RockkLee/order-bot/internal/intent"
	"github.com/RockkLee/order-bot/internal/metrics"
	"github.com/RockkLee/order-bot/internal/ratelimiter"
	"github.com/RockkLee/order-bot/internal/service"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config      config
	logger      *zap.SugaredLogger
	metrics     *metrics.Metrics
	rateLimiter ratelimiter.Limiter
	menus       *service.MenuService
	carts       *service.CartService
	orders      *service.OrderService
	chat        *service.ChatService
	checks      []healthCheck
	starters    []starter
	closers     []closer
}

type healthCheck struct {
	name  string
	check func(ctx context.Context) error
}

type starter struct {
	name  string
	start func() error
}

// closers run in order on shutdown, after the HTTP server has drained.
type closer struct {
	name  string
	close func(ctx context.Context) error
}

type config struct {
	addr        string
	env         string
	apiURL      string
	rateLimiter ratelimiter.Config
	redisAddr   string
	mongo       mongoConfig
	store       storeConfig
	classifier  classifierConfig
	notify      notifyConfig
	rabbitMQ    rabbitMQConfig
	kafka       kafkaConfig
	orderSync   orderSyncConfig
	menuImport  menuImportConfig
}

type mongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type storeConfig struct {
	Driver       string
	URL          string
	MaxOpenConns int
	LockTimeout  time.Duration
	TxTimeout    time.Duration
}

type classifierConfig struct {
	intent.LLMConfig
	// TurnTimeout bounds the classifier inside one turn before the fallback runs.
	TurnTimeout time.Duration
}

type notifyConfig struct {
	Kind        string
	QueueSize   int
	Workers     int
	MaxAttempts int
}

type rabbitMQConfig struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

type kafkaConfig struct {
	Brokers string
	Topic   string
}

type orderSyncConfig struct {
	Addr         string
	CallbackAddr string
}

type menuImportConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	RestaurantName  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if app.config.rateLimiter.Enabled {
		r.Use(app.RateLimiterMiddleware)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Handle("/metrics", metrics.Handler())

		r.With(app.metrics.Middleware("chat")).Post("/chat", app.chatHandler)
		r.With(app.metrics.Middleware("cart")).Get("/cart", app.getCartHandler)

		r.Route("/menu/{menu_id}", func(r chi.Router) {
			r.Use(app.metrics.Middleware("menu"))
			r.Get("/", app.getMenuHandler)
			r.Get("/items", app.searchMenuHandler)
		})

		r.With(app.metrics.Middleware("orders")).Get("/orders/{order_id}", app.getOrderHandler)

		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))
	})

	return r
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if allow, retry := app.rateLimiter.Allow(clientKey(r)); !allow {
			app.rateLimitExceededResponse(w, r, retry)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey is the client IP; middleware.RealIP has already applied proxy headers.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (app *application) run(mux http.Handler) error {
	// docs
	docs.SwaggerInfo.Title = "Order Bot"
	docs.SwaggerInfo.Description = "Chat based food ordering API"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/api/v1"

	for _, s := range app.starters {
		if err := s.start(); err != nil {
			return fmt.Errorf("failed to start %s: %w", s.name, err)
		}
		app.logger.Infow("started", "component", s.name)
	}

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		err := srv.Shutdown(ctx)
		app.close(ctx)
		shutdown <- err
	}()

	app.logger.Infow("server have started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		app.close(context.Background())
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}

func (app *application) close(ctx context.Context) {
	for _, c := range app.closers {
		if err := c.close(ctx); err != nil {
			app.logger.Errorw("error closing", "component", c.name, "error", err)
			continue
		}
		app.logger.Infow("closed gracefully", "component", c.name)
	}
}
