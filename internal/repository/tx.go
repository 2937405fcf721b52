package repository

import (
	"context"
	"database/sql"
	"fmt"

	"pizzahunt/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres error codes translated into domain errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

func pqCode(err error) string {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code)
	}
	return ""
}

func NewPostgresRepositories(db DBTX, logger *logrus.Logger) domain.Repositories {
	return domain.Repositories{
		Catalog: NewPostgresCatalogRepository(db, logger),
		Carts:   NewPostgresCartRepository(db, logger),
		Orders:  NewPostgresOrderRepository(db, logger),
	}
}

type postgresTxManager struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresTxManager(db *sql.DB, logger *logrus.Logger) domain.TxManager {
	return &postgresTxManager{
		db:  db,
		log: logger,
	}
}

func (m *postgresTxManager) WithinTx(ctx context.Context, fn func(repos domain.Repositories) error) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		m.log.Errorf("Repository: Failed to begin transaction: %v", err)
		return fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			m.log.Error("Repository: Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			m.log.Debugf("Repository: Rolling back transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				m.log.Errorf("Repository: Failed to rollback transaction: %v (original error: %v)", rbErr, err)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				m.log.Errorf("Repository: Failed to commit transaction: %v", cErr)
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	err = fn(NewPostgresRepositories(tx, m.log))
	return err
}
