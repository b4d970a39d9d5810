// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
//
// Транзакция открывается TxManager.WithinTx и передаётся через context:
// все методы репозиториев сами выбирают *sql.Tx из контекста или пул *sql.DB.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"

	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

// коды ошибок PostgreSQL, которые нам интересны
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type txKey struct{}

// querier — общее подмножество *sql.DB и *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn возвращает транзакцию из контекста, если она есть, иначе пул.
func conn(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// TxManager открывает транзакции для сервисного слоя.
type TxManager struct {
	db      *sql.DB
	timeout time.Duration
}

// NewTxManager создаёт TxManager. timeout <= 0 — без ограничения по времени.
func NewTxManager(db *sql.DB, timeout time.Duration) *TxManager {
	return &TxManager{db: db, timeout: timeout}
}

// WithinTx выполняет fn в одной транзакции.
//
// fn вернула nil — commit, ошибку или panic — rollback.
// Вложенный вызов переиспользует уже открытую транзакцию.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, storageErr(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr(err)
	}
	return nil
}

// withSavepoint защищает fn точкой сохранения, если мы внутри транзакции.
//
// В PostgreSQL ошибка запроса ломает всю транзакцию; откат к savepoint
// оставляет её рабочей, и вызывающий может выполнить компенсацию.
func withSavepoint(ctx context.Context, db *sql.DB, name string, fn func(q querier) error) error {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	if !ok {
		return fn(db)
	}

	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return storageErr(err)
	}
	if err := fn(tx); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return errors.Join(err, storageErr(rbErr))
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return storageErr(err)
	}
	return nil
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", serr.ErrStorage, err)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
