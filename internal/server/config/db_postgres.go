// Package config содержит инициализацию подключения к базе данных сервера.
//
// Пакет выполняет:
//   - открытие соединения с PostgreSQL (через драйвер pgx);
//   - настройку пула соединений;
//   - проверку доступности базы (Ping);
//   - запуск миграций (golang-migrate) при старте сервера.
package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/IvanChernomyrdin/go-meetings/internal/shared/logger"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
)

// OpenDB открывает подключение к базе данных по DSN, настраивает пул
// и проверяет доступность базы.
//
// Закрывать возвращённый *sql.DB должен вызывающий.
func OpenDB(ctx context.Context, cfg DBConfig, log *logger.HTTPLogger) (*sql.DB, error) {
	sugar := log.Sugar()

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		sugar.Errorf("error to connect db: %v", err)
		return nil, err
	}
	ApplyPool(db, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		sugar.Errorf("error check db connection: %v", err)
		db.Close()
		return nil, err
	}
	return db, nil
}

// ApplyPool переносит лимиты пула из конфига в *sql.DB. Нули не трогаем.
func ApplyPool(db *sql.DB, cfg DBConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// Migrate применяет миграции из cfg.Path (по умолчанию file://migrations/postgres).
// Если миграции уже применены, ошибка migrate.ErrNoChange не считается ошибкой.
func Migrate(db *sql.DB, cfg MigrationsConfig, log *logger.HTTPLogger) error {
	sugar := log.Sugar()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		sugar.Errorf("error creating migration driver: %v", err)
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.Path, "postgres", driver)
	if err != nil {
		sugar.Errorf("error creating migrations: %v", err)
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		sugar.Errorf("error applying migrations: %v", err)
		return err
	}

	sugar.Info("migrations applied successfully")
	return nil
}
