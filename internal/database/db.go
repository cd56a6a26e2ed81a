package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound возвращается, когда запись не найдена.
var ErrNotFound = errors.New("запись не найдена")

// DB: хранилище поверх пула pgx. Пул можно пересоздать через EnsureConnected.
type DB struct {
	mu      sync.RWMutex
	pool    *pgxpool.Pool
	connStr string
}

func ConnectDB(ctx context.Context, connStr string) (*DB, error) {
	pool, err := newPool(ctx, connStr)
	if err != nil {
		return nil, err
	}
	return &DB{pool: pool, connStr: connStr}, nil
}

func newPool(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("БД недоступна: %w", err)
	}
	return pool, nil
}

func (db *DB) p() *pgxpool.Pool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.pool
}

func (db *DB) Ping(ctx context.Context) error {
	return db.p().Ping(ctx)
}

// EnsureConnected проверяет соединение и пересоздаёт пул, если оно потеряно.
func (db *DB) EnsureConnected(ctx context.Context) error {
	if err := db.Ping(ctx); err == nil {
		return nil
	}

	pool, err := newPool(ctx, db.connStr)
	if err != nil {
		return err
	}

	db.mu.Lock()
	old := db.pool
	db.pool = pool
	db.mu.Unlock()

	old.Close()
	return nil
}

func (db *DB) Close() {
	db.p().Close()
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
