// @title           Meetings API
// @version         1.0
// @description     Meeting scheduling backend.
// @description     Users sign up, create meetings and register for them.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа сервера встреч.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера из файла ./configs/server.yaml;
//   - подключение к базе данных и применение миграций;
//   - создание репозиториев, сервисов, middleware и HTTP-обработчиков;
//   - запуск сервера (HTTPS, если включён TLS) с заданными таймаутами;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/api"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/config"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-meetings/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/repository"
	"github.com/IvanChernomyrdin/go-meetings/internal/server/service"
	"github.com/IvanChernomyrdin/go-meetings/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-meetings/swagger/docs"
)

func main() {
	// .env грузим до конфига: в yaml есть ${JWT_SIGNING_KEY} и ${DATABASE_DSN}
	envErr := godotenv.Load()

	cfg, err := config.Load("./configs/server.yaml")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	httpLogger := logger.New(logger.Options{
		Dir:    cfg.Log.Dir,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	defer httpLogger.Sync()
	sugar := httpLogger.Sugar()

	if envErr != nil {
		sugar.Warnf("no .env file loaded, error: %v", envErr)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// подключаем базу данных
	db, err := config.OpenDB(ctx, cfg.DB, httpLogger)
	if err != nil {
		sugar.Fatal(err)
	}
	defer db.Close()

	if cfg.Migrations.Enabled {
		if err := config.Migrate(db, cfg.Migrations, httpLogger); err != nil {
			sugar.Fatal(err)
		}
	}

	// создаём репы
	repos := service.Repositories{
		Users:    repository.NewUsersRepository(db),
		Sessions: repository.NewSessionsRepository(db),
		Meetings: repository.NewMeetingsRepository(db),
	}
	tx := repository.NewTxManager(db, cfg.DB.QueryTimeout)

	svc := service.NewServices(repos, tx, cfg)
	handler := api.NewHandler(svc, httpLogger)

	opts := h.Options{MaxBodyBytes: cfg.Server.MaxBodyBytes}
	rl := cfg.Security.RateLimit
	if rl.Enabled {
		opts.RateLimiter = middleware.NewRateLimiter(rl.RPS, rl.Burst, rl.IdleTTL)
	}
	router := h.NewRouter(handler, opts)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)}
	}

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		sugar.Infof("server started on %s (tls=%v)", addr, cfg.TLS.Enabled)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// чистка неактивных IP в rate limiter
	if opts.RateLimiter != nil {
		g.Go(func() error {
			return opts.RateLimiter.Run(ctx)
		})
	}

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единая обработка ошибок
	if err := g.Wait(); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
