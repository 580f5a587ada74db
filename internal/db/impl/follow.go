package impl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sidereusnuntius/gofederate/internal/db/impl/queries"
	"github.com/sidereusnuntius/gofederate/internal/domain"
)

func (d *dbImpl) AddFollowing(ctx context.Context, follower, followee domain.Actor) (bool, error) {
	result, err := d.queries.InsertFollowing(ctx, queries.InsertFollowingParams{
		ID:              uuid.NewString(),
		ActorID:         follower.ID.String(),
		TargetActorID:   followee.ID.String(),
		TargetActorAcct: followee.Acct(),
		State:           string(domain.FollowPending),
		Created:         time.Now().UnixMilli(),
	})
	if err != nil {
		return false, fmt.Errorf("%w: %s following %s", d.HandleError(err), follower.ID, followee.ID)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, d.HandleError(err)
	}
	return n > 0, nil
}

func (d *dbImpl) AcceptFollowing(ctx context.Context, followee, follower *url.URL) error {
	err := d.queries.AcceptFollowing(ctx, queries.AcceptFollowingParams{
		ActorID:       follower.String(),
		TargetActorID: followee.String(),
	})
	if err != nil {
		return fmt.Errorf("%w: accepting %s as follower of %s", d.HandleError(err), follower, followee)
	}
	return nil
}

func (d *dbImpl) RemoveFollowing(ctx context.Context, follower, followee *url.URL) error {
	err := d.queries.DeleteFollowing(ctx, queries.DeleteFollowingParams{
		ActorID:       follower.String(),
		TargetActorID: followee.String(),
	})
	if err != nil {
		return fmt.Errorf("%w: removing follow of %s by %s", d.HandleError(err), followee, follower)
	}
	return nil
}

func (d *dbImpl) GetFollowers(ctx context.Context, actor *url.URL, state domain.FollowState, n int) ([]*url.URL, error) {
	ids, err := d.queries.ListFollowers(ctx, queries.ListFollowersParams{
		TargetActorID: actor.String(),
		State:         string(state),
		Limit:         limit(n),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: followers of %s", d.HandleError(err), actor)
	}
	return parseURLs(ids), nil
}

func (d *dbImpl) GetFollowing(ctx context.Context, actor *url.URL, state domain.FollowState, n int) ([]*url.URL, error) {
	ids, err := d.queries.ListFollowing(ctx, queries.ListFollowingParams{
		ActorID: actor.String(),
		State:   string(state),
		Limit:   limit(n),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: actors followed by %s", d.HandleError(err), actor)
	}
	return parseURLs(ids), nil
}

func (d *dbImpl) GetFollowingEdges(ctx context.Context, actor *url.URL) ([]domain.Follow, error) {
	rows, err := d.queries.ListFollowingEdges(ctx, actor.String())
	if err != nil {
		return nil, fmt.Errorf("%w: follows of %s", d.HandleError(err), actor)
	}
	edges := make([]domain.Follow, 0, len(rows))
	for _, r := range rows {
		edges = append(edges, followFromRow(r))
	}
	return edges, nil
}

func (d *dbImpl) MoveFollowers(ctx context.Context, to domain.Actor, followers []*url.URL) error {
	now := time.Now().UnixMilli()
	err := d.WithTx(ctx, func(tx *queries.Queries) error {
		for _, follower := range followers {
			_, err := tx.InsertFollowing(ctx, queries.InsertFollowingParams{
				ID:              uuid.NewString(),
				ActorID:         follower.String(),
				TargetActorID:   to.ID.String(),
				TargetActorAcct: to.Acct(),
				State:           string(domain.FollowAccepted),
				Created:         now,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: moving followers to %s", d.HandleError(err), to.ID)
	}
	return nil
}

func (d *dbImpl) MoveFollowing(ctx context.Context, actor *url.URL, edges []domain.Follow) error {
	now := time.Now().UnixMilli()
	err := d.WithTx(ctx, func(tx *queries.Queries) error {
		for _, edge := range edges {
			_, err := tx.InsertFollowing(ctx, queries.InsertFollowingParams{
				ID:              uuid.NewString(),
				ActorID:         actor.String(),
				TargetActorID:   edge.Followee.String(),
				TargetActorAcct: edge.FolloweeAcct,
				State:           string(domain.FollowAccepted),
				Created:         now,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: moving follows to %s", d.HandleError(err), actor)
	}
	return nil
}

func (d *dbImpl) IsFollowing(ctx context.Context, follower, followee *url.URL) (bool, error) {
	ok, err := d.queries.IsFollowing(ctx, queries.IsFollowingParams{
		ActorID:       follower.String(),
		TargetActorID: followee.String(),
	})
	if err != nil {
		return false, d.HandleError(err)
	}
	return ok, nil
}

func (d *dbImpl) IsFollowingOrRequested(ctx context.Context, follower, followee *url.URL) (bool, error) {
	count, err := d.queries.CountFollowingEdges(ctx, queries.CountFollowingEdgesParams{
		ActorID:       follower.String(),
		TargetActorID: followee.String(),
	})
	if err != nil {
		return false, d.HandleError(err)
	}
	return count > 0, nil
}
