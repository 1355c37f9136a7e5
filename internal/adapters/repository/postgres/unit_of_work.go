package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

// NewUnitOfWork creates a unit of work over db
func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

// DocumentRepo is bound to the running transaction, if any
func (u *sqlUnitOfWork) DocumentRepo() port.DocumentRepository {
	if u.tx != nil {
		return NewSqlDocumentRepository(u.tx)
	}
	return NewSqlDocumentRepository(u.db)
}

// Execute runs fn in a transaction, committed when fn returns nil.
// Called from inside fn it joins the running transaction.
func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) (err error) {
	if u.tx != nil {
		return fn(u)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&sqlUnitOfWork{db: u.db, tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback failed: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
