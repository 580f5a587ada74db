package queue

import (
	"net/url"
	"time"

	"github.com/mikestefanello/backlite"
)

const (
	DeliverQueue = "Deliver"
)

// DeliverMessage asks a consumer to sign Activity as ActorID and post it to the inbox of ToActorID.
type DeliverMessage struct {
	Type      string         `json:"type"`
	ActorID   string         `json:"actorId"`
	ToActorID string         `json:"toActorId"`
	Activity  map[string]any `json:"activity"`
	// UserKEK unseals the sender's private key.
	UserKEK string `json:"userKEK"`
}

func NewDeliverMessage(from, to *url.URL, activity map[string]any, kek string) DeliverMessage {
	return DeliverMessage{
		Type:      DeliverQueue,
		ActorID:   from.String(),
		ToActorID: to.String(),
		Activity:  activity,
		UserKEK:   kek,
	}
}

func (DeliverMessage) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        DeliverQueue,
		MaxAttempts: 8,
		Backoff:     30 * time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
			Data: &backlite.RetainData{
				OnlyFailed: true,
			},
		},
	}
}
