// Package server initializes and runs the gophsignup server: it opens the
// database, brings the schema up, wires the account service with its code
// delivery and attempt limiting backends, and serves gRPC until a shutdown
// signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophsignup/internal/logging"
	"github.com/dmitrijs2005/gophsignup/internal/server/config"
	"github.com/dmitrijs2005/gophsignup/internal/server/notify"
	"github.com/dmitrijs2005/gophsignup/internal/server/ratelimit"
	"github.com/dmitrijs2005/gophsignup/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophsignup/internal/server/services"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/gophsignup/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	notifier       notify.Notifier
	redis          *redis.Client
	accountService *services.AccountService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("schema init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	app.notifier = newNotifier(c, logger)

	opts := []services.Option{services.WithLogger(logger), services.WithNotifier(app.notifier)}

	limiter, client, err := newLimiter(ctx, c)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	if limiter != nil {
		app.redis = client
		opts = append(opts, services.WithLimiter(limiter))
	}

	app.accountService = services.NewAccountService(db, rm, c, opts...)

	return app, nil
}

// newNotifier picks Kafka when brokers are configured, the log otherwise.
func newNotifier(c *config.Config, l logging.Logger) notify.Notifier {
	if len(c.KafkaBrokers) > 0 {
		return notify.NewKafkaNotifier(c.KafkaBrokers, c.KafkaTopic)
	}
	return notify.NewLogNotifier(l)
}

// newLimiter returns nil when no Redis address is configured.
func newLimiter(ctx context.Context, c *config.Config) (*ratelimit.Limiter, *redis.Client, error) {
	if c.RedisAddr == "" {
		return nil, nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return ratelimit.New(client, "gophsignup:attempts", c.AttemptLimit, c.AttemptWindow), client, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accountService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
}

func (app *App) close(ctx context.Context) {
	if app.notifier != nil {
		if err := app.notifier.Close(); err != nil {
			app.logger.Error(ctx, "notifier close error", "error", err)
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
