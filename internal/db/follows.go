package db

import (
	"context"
	"net/url"

	"github.com/sidereusnuntius/gofederate/internal/domain"
)

type Follows interface {
	// AddFollowing creates a pending edge. Calling it for an existing edge, whatever its state, does nothing
	// and returns created = false.
	AddFollowing(ctx context.Context, follower, followee domain.Actor) (created bool, err error)
	// AcceptFollowing moves a pending edge to accepted. It is a no-op when no pending edge exists.
	AcceptFollowing(ctx context.Context, followee, follower *url.URL) error
	RemoveFollowing(ctx context.Context, follower, followee *url.URL) error
	// GetFollowers returns the IRIs of the actors following actor in the given state. A limit <= 0 returns
	// every row.
	GetFollowers(ctx context.Context, actor *url.URL, state domain.FollowState, limit int) ([]*url.URL, error)
	GetFollowing(ctx context.Context, actor *url.URL, state domain.FollowState, limit int) ([]*url.URL, error)
	GetFollowingEdges(ctx context.Context, actor *url.URL) ([]domain.Follow, error)
	// MoveFollowers makes each of the given actors an accepted follower of to.
	MoveFollowers(ctx context.Context, to domain.Actor, followers []*url.URL) error
	// MoveFollowing recreates the given edges, already accepted, with actor as the follower.
	MoveFollowing(ctx context.Context, actor *url.URL, edges []domain.Follow) error
	IsFollowing(ctx context.Context, follower, followee *url.URL) (bool, error)
	IsFollowingOrRequested(ctx context.Context, follower, followee *url.URL) (bool, error)
}
