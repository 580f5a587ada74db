package queue

import (
	"context"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sourcegraph/conc/pool"
)

type FollowerLister interface {
	GetFollowers(ctx context.Context, actor *url.URL, state domain.FollowState, limit int) ([]*url.URL, error)
}

// Fanout enqueues one delivery per follower.
type Fanout struct {
	followers FollowerLister
	submitter Submitter
	userKEK   string
}

func NewFanout(followers FollowerLister, submitter Submitter, userKEK string) *Fanout {
	return &Fanout{
		followers: followers,
		submitter: submitter,
		userKEK:   userKEK,
	}
}

// DeliverToFollowers enqueues activity for every accepted follower of from. Batches are submitted
// concurrently and all of them are attempted; failed submissions are logged, not returned.
func (f *Fanout) DeliverToFollowers(ctx context.Context, from domain.Actor, activity map[string]any) error {
	followers, err := f.followers.GetFollowers(ctx, from.ID, domain.FollowAccepted, 0)
	if err != nil {
		return err
	}
	if len(followers) == 0 {
		return nil
	}

	payload := Cloneable(activity)
	messages := make([]DeliverMessage, 0, len(followers))
	for _, follower := range followers {
		messages = append(messages, NewDeliverMessage(from.ID, follower, payload, f.userKEK))
	}

	p := pool.New().WithErrors()
	for start := 0; start < len(messages); start += BatchSize {
		batch := messages[start:min(start+BatchSize, len(messages))]
		p.Go(func() error {
			if err := f.submitter.Submit(ctx, batch); err != nil {
				log.Error().Err(err).Str("actor", from.ID.String()).Int("size", len(batch)).Msg("failed to submit delivery batch")
				return err
			}
			return nil
		})
	}

	if err = p.Wait(); err != nil {
		log.Warn().Err(err).Str("actor", from.ID.String()).Msg("some deliveries were not enqueued")
	}
	return nil
}

// Cloneable returns a deep copy of m holding only values that survive JSON encoding unchanged. Anything
// else, live IRIs included, is dropped.
func Cloneable(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if c, ok := clone(v); ok {
			out[k] = c
		}
	}
	return out
}

func clone(v any) (any, bool) {
	switch t := v.(type) {
	case nil, string, bool, float64, float32, int, int32, int64, uint, uint32, uint64:
		return t, true
	case []string:
		return append([]string(nil), t...), true
	case map[string]any:
		return Cloneable(t), true
	case []any:
		list := make([]any, 0, len(t))
		for _, e := range t {
			if c, ok := clone(e); ok {
				list = append(list, c)
			}
		}
		return list, true
	default:
		return nil, false
	}
}
