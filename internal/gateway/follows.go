package gateway

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/activity"
	"github.com/sidereusnuntius/gofederate/internal/conversions"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation"
)

func (d *Dispatcher) handleFollow(ctx context.Context, f activity.Follow) error {
	follower, err := d.cache.GetActor(ctx, f.Actor)
	if err != nil {
		return err
	}
	followee, err := d.cache.GetActor(ctx, f.Object)
	if err != nil {
		return err
	}

	created, err := d.db.AddFollowing(ctx, follower, followee)
	if err != nil {
		return err
	}
	if !followee.Local {
		return nil
	}

	autoAccept := d.cfg.AutoAcceptFollows
	if created {
		kind := domain.NotificationFollowRequest
		if autoAccept {
			kind = domain.NotificationFollow
		}
		if err = d.notify(ctx, kind, followee.ID, follower.ID, nil); err != nil {
			return err
		}
	}
	if !autoAccept {
		return nil
	}

	// The Accept is sent again for repeated Follows: the follower may have missed the previous one.
	if err = d.accept(ctx, followee, follower, f.Raw); err != nil {
		log.Error().Err(err).Str("follower", follower.ID.String()).Str("followee", followee.ID.String()).Msg("failed to deliver accept")
	}
	return d.db.AcceptFollowing(ctx, followee.ID, follower.ID)
}

func (d *Dispatcher) accept(ctx context.Context, followee, follower domain.Actor, follow map[string]any) error {
	id, err := d.cache.NextID(ctx, activitiesCounter)
	if err != nil {
		return err
	}

	accept, err := conversions.NewAccept(ctx, d.cache.ActivityIRI(id), followee.ID, follow)
	if err != nil {
		return err
	}
	m, err := serialize(accept)
	if err != nil {
		return err
	}
	return d.send(ctx, followee, follower, m)
}

func (d *Dispatcher) handleAccept(ctx context.Context, a activity.Accept) error {
	if a.Object.Type != string(activity.KindFollow) {
		log.Debug().Str("type", a.Object.Type).Msg("ignoring accept of unsupported object")
		return nil
	}

	follower := a.Object.AttributedTo()
	if follower == nil {
		return federation.Invalid("%w: object.actor", federation.ErrMissingProperty)
	}
	if followee := a.Object.ObjectIRI(); followee == nil || followee.String() != a.Actor.String() {
		return federation.Precondition("actor.id mismatch when accepting follow")
	}

	return d.db.AcceptFollowing(ctx, a.Actor, follower)
}

func (d *Dispatcher) handleMove(ctx context.Context, m activity.Move) error {
	if m.Object.String() != m.Actor.String() {
		return federation.Precondition("actor.id mismatch when moving actor")
	}

	target, err := d.cache.GetActor(ctx, m.Target)
	if err != nil {
		return err
	}
	if !target.AliasOf(m.Actor) {
		// The alias may have been added after the target was cached.
		target, err = d.cache.RefreshActor(ctx, m.Target)
		if err != nil {
			log.Debug().Err(err).Str("target", m.Target.String()).Msg("failed to refresh move target")
		}
		if err != nil || !target.AliasOf(m.Actor) {
			return federation.Precondition("move target %s does not list %s as an alias", m.Target, m.Actor)
		}
	}

	followers, err := d.db.GetFollowers(ctx, m.Actor, domain.FollowAccepted, 0)
	if err != nil {
		return err
	}
	if err = d.db.MoveFollowers(ctx, target, followers); err != nil {
		return err
	}

	edges, err := d.db.GetFollowingEdges(ctx, m.Actor)
	if err != nil {
		return err
	}
	// Pending requests were never approved by their followee and are not carried over.
	accepted := slices.DeleteFunc(edges, func(e domain.Follow) bool {
		return e.State != domain.FollowAccepted
	})
	if err = d.db.MoveFollowing(ctx, target.ID, accepted); err != nil {
		return err
	}

	log.Info().Str("from", m.Actor.String()).Str("to", target.ID.String()).Int("followers", len(followers)).Msg("moved actor")
	return nil
}

// FollowRemote makes the local actor follow remote. The edge stays pending until remote accepts; calling it
// again while pending re-sends the Follow.
func (d *Dispatcher) FollowRemote(ctx context.Context, local domain.Actor, remote *url.URL) error {
	if !local.Local {
		return fmt.Errorf("%w: %s is not a local actor", federation.ErrPrecondition, local.ID)
	}

	followee, err := d.cache.GetActor(ctx, remote)
	if err != nil {
		return err
	}

	created, err := d.db.AddFollowing(ctx, local, followee)
	if err != nil {
		return err
	}
	if !created {
		// A request still pending may have been lost by the remote, so it is sent again.
		following, err := d.db.IsFollowing(ctx, local.ID, followee.ID)
		if err != nil || following {
			return err
		}
	}

	id, err := d.cache.NextID(ctx, activitiesCounter)
	if err != nil {
		return err
	}
	m, err := serialize(conversions.NewFollow(d.cache.ActivityIRI(id), local.ID, followee.ID))
	if err != nil {
		return err
	}

	if err = d.send(ctx, local, followee, m); err != nil {
		// Drop the edge so the follow can be attempted again.
		if rmErr := d.db.RemoveFollowing(ctx, local.ID, followee.ID); rmErr != nil {
			log.Error().Err(rmErr).Msg("failed to remove pending follow")
		}
		return err
	}
	return nil
}
