package impl

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/config"
	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/db/impl/queries"
)

// Options describes what the underlying storage engine supports.
type Options struct {
	// Returning enables INSERT ... RETURNING. When false, inserts that must report the stored row are
	// emulated with an insert followed by a select inside the same transaction.
	Returning bool
}

type dbImpl struct {
	Config  config.Configuration
	db      *sql.DB
	queries *queries.Queries
	opts    Options
}

func New(config config.Configuration, d *sql.DB, opts Options) db.DB {
	return &dbImpl{
		Config:  config,
		db:      d,
		queries: queries.New(d),
		opts:    opts,
	}
}

// HandleError takes a database error and returns a higher level error that hides the implementation details
// and can be more easily handled by the calling functions without doing type assertions, checking error codes and
// comparing to sentinel errors.
func (d *dbImpl) HandleError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return db.ErrNotFound
	case errors.Is(err, db.ErrNotFound), errors.Is(err, db.ErrConflict):
		return err
	default:
		log.Error().Err(err).Msg("database error")
		return errors.Join(db.ErrInternal, err)
	}
}

func (d *dbImpl) WithTx(ctx context.Context, f func(tx *queries.Queries) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return d.HandleError(err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = d.HandleError(tx.Commit())
		}
	}()

	err = f(d.queries.WithTx(tx))
	return
}

func limit(n int) int64 {
	if n <= 0 {
		return -1
	}
	return int64(n)
}
