package queue

import (
	"context"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

// BatchSize caps the number of messages handed to the transport in one submission.
const BatchSize = 100

// Submitter hands a batch of messages to the queue transport.
type Submitter interface {
	Submit(ctx context.Context, batch []DeliverMessage) error
}

type BackliteSubmitter struct {
	client *backlite.Client
}

func NewSubmitter(client *backlite.Client) *BackliteSubmitter {
	return &BackliteSubmitter{client: client}
}

// Submit stores every message of batch in a single transaction.
func (s *BackliteSubmitter) Submit(ctx context.Context, batch []DeliverMessage) error {
	tasks := make([]backlite.Task, 0, len(batch))
	for _, m := range batch {
		tasks = append(tasks, m)
	}
	_, err := s.client.Add(tasks...).Ctx(ctx).Save()
	return err
}

// Start registers the delivery consumer and starts the workers. They stop when ctx is cancelled.
func Start(ctx context.Context, client *backlite.Client, consumer *Consumer) {
	client.Register(backlite.NewQueue[DeliverMessage](consumer.Deliver))
	client.Start(ctx)
	log.Info().Msg("started task queue")
}
