package impl

import (
	"context"
	"fmt"

	"github.com/sidereusnuntius/gofederate/internal/db/impl/queries"
)

func (d *dbImpl) NextSequence(ctx context.Context, key string) (int64, error) {
	if d.opts.Returning {
		value, err := d.queries.NextSequence(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("%w: sequence %s", d.HandleError(err), key)
		}
		return value, nil
	}

	var value int64
	err := d.WithTx(ctx, func(tx *queries.Queries) (err error) {
		if err = tx.IncrementSequence(ctx, key); err != nil {
			return err
		}
		value, err = tx.GetSequence(ctx, key)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: sequence %s", d.HandleError(err), key)
	}
	return value, nil
}
