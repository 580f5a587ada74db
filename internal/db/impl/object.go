package impl

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sidereusnuntius/gofederate/internal/db"
	"github.com/sidereusnuntius/gofederate/internal/db/impl/queries"
	"github.com/sidereusnuntius/gofederate/internal/diff"
	"github.com/sidereusnuntius/gofederate/internal/domain"
)

func (d *dbImpl) GetObject(ctx context.Context, id *url.URL) (domain.Object, error) {
	row, err := d.queries.GetObject(ctx, id.String())
	if err != nil {
		return domain.Object{}, fmt.Errorf("%w: object %s", d.HandleError(err), id)
	}
	return objectFromRow(row)
}

func (d *dbImpl) GetObjectByOriginalID(ctx context.Context, original *url.URL) (domain.Object, error) {
	row, err := d.queries.GetObjectByOriginalID(ctx, nullURL(original))
	if err != nil {
		return domain.Object{}, fmt.Errorf("%w: object with original id %s", d.HandleError(err), original)
	}
	return objectFromRow(row)
}

func (d *dbImpl) InsertObject(ctx context.Context, obj domain.Object) (domain.Object, bool, error) {
	props, err := json.Marshal(obj.Properties)
	if err != nil {
		return domain.Object{}, false, fmt.Errorf("encoding properties of %s: %w", obj.ID, err)
	}

	params := queries.InsertObjectParams{
		ID:               obj.ID.String(),
		MastodonID:       obj.Meta.MastodonID,
		Type:             obj.Type,
		OriginalActorID:  obj.Meta.OriginalActorID.String(),
		OriginalObjectID: nullURL(obj.Meta.OriginalObjectID),
		Local:            obj.Meta.Local,
		Properties:       string(props),
		Published:        obj.Published.UnixMilli(),
		Updated:          nullTime(obj.Updated),
	}

	var row queries.Object
	inserted := false
	err = d.WithTx(ctx, func(tx *queries.Queries) error {
		var err error
		if d.opts.Returning {
			row, err = tx.InsertObjectReturning(ctx, params)
			if err == nil {
				inserted = true
				return nil
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
		} else {
			var result sql.Result
			result, err = tx.InsertObjectOrIgnore(ctx, params)
			if err != nil {
				return err
			}
			var n int64
			if n, err = result.RowsAffected(); err != nil {
				return err
			}
			if n > 0 {
				inserted = true
				row, err = tx.GetObject(ctx, params.ID)
				return err
			}
		}

		// Another row holds the same original IRI; it wins.
		if !params.OriginalObjectID.Valid {
			return fmt.Errorf("%w: object %s", db.ErrConflict, params.ID)
		}
		row, err = tx.GetObjectByOriginalID(ctx, params.OriginalObjectID)
		return err
	})
	if err != nil {
		return domain.Object{}, false, fmt.Errorf("%w: inserting object %s", d.HandleError(err), obj.ID)
	}

	stored, err := objectFromRow(row)
	return stored, inserted, err
}

func (d *dbImpl) UpdateObject(ctx context.Context, id *url.URL, properties map[string]any, updated time.Time) error {
	props, err := json.Marshal(properties)
	if err != nil {
		return fmt.Errorf("encoding properties of %s: %w", id, err)
	}
	newContent, _ := properties["content"].(string)

	err = d.WithTx(ctx, func(tx *queries.Queries) error {
		row, err := tx.GetObject(ctx, id.String())
		if err != nil {
			return err
		}
		prev, err := objectFromRow(row)
		if err != nil {
			return err
		}

		// The stored patch turns the new content back into the previous one.
		err = tx.InsertObjectRevision(ctx, queries.InsertObjectRevisionParams{
			ObjectID: row.ID,
			Patch:    diff.FindPatches(newContent, prev.Content()),
			Created:  updated.UnixMilli(),
		})
		if err != nil {
			return err
		}

		return tx.UpdateObjectProperties(ctx, queries.UpdateObjectPropertiesParams{
			Properties: string(props),
			Updated:    nullTime(updated),
			ID:         row.ID,
		})
	})
	if err != nil {
		return fmt.Errorf("%w: updating object %s", d.HandleError(err), id)
	}
	return nil
}

func (d *dbImpl) DeleteObject(ctx context.Context, id *url.URL) error {
	objectID := id.String()
	err := d.WithTx(ctx, func(tx *queries.Queries) error {
		if err := tx.DeleteOutboxObjectsByObject(ctx, objectID); err != nil {
			return fmt.Errorf("deleting outbox entries: %w", err)
		}
		if err := tx.DeleteReblogsByObject(ctx, objectID); err != nil {
			return fmt.Errorf("deleting reblogs: %w", err)
		}
		if err := tx.DeleteFavouritesByObject(ctx, objectID); err != nil {
			return fmt.Errorf("deleting likes: %w", err)
		}
		if err := tx.DeleteNotificationsByObject(ctx, nullString(objectID)); err != nil {
			return fmt.Errorf("deleting notifications: %w", err)
		}
		if err := tx.DeleteRepliesByObject(ctx, objectID); err != nil {
			return fmt.Errorf("deleting replies: %w", err)
		}
		if err := tx.DeleteIdempotencyKeysByObject(ctx, objectID); err != nil {
			return fmt.Errorf("deleting idempotency keys: %w", err)
		}
		if err := tx.DeleteObjectRevisions(ctx, objectID); err != nil {
			return fmt.Errorf("deleting revisions: %w", err)
		}

		result, err := tx.DeleteObject(ctx, objectID)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return db.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: deleting object %s", d.HandleError(err), id)
	}
	return nil
}

func (d *dbImpl) GetObjectRevisions(ctx context.Context, id *url.URL) ([]domain.Revision, error) {
	rows, err := d.queries.ListObjectRevisions(ctx, id.String())
	if err != nil {
		return nil, fmt.Errorf("%w: revisions of %s", d.HandleError(err), id)
	}

	revisions := make([]domain.Revision, 0, len(rows))
	for _, r := range rows {
		revisions = append(revisions, domain.Revision{
			ID:      r.ID,
			Patch:   r.Patch,
			Created: fromMilli(r.Created),
		})
	}
	return revisions, nil
}
