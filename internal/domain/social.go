package domain

import (
	"net/url"
	"time"
)

type FollowState string

const (
	FollowPending  FollowState = "pending"
	FollowAccepted FollowState = "accepted"
)

// Follow is an edge between a follower and a followee.
type Follow struct {
	ID           string
	Follower     *url.URL
	Followee     *url.URL
	FolloweeAcct string
	State        FollowState
	Created      time.Time
}

// OutboxEntry records that an actor made an object visible in its outbox.
type OutboxEntry struct {
	ID        string
	Actor     *url.URL
	Object    *url.URL
	To        []string
	Cc        []string
	Published time.Time
}

// Reblog is keyed by the IRI of the Announce activity that created it.
type Reblog struct {
	ID          *url.URL
	MastodonID  string
	Actor       *url.URL
	Object      *url.URL
	OutboxEntry string
	Created     time.Time
}

type Like struct {
	ID       string
	Actor    *url.URL
	Object   *url.URL
	Activity *url.URL
	Created  time.Time
}

type NotificationType string

const (
	NotificationMention       NotificationType = "mention"
	NotificationReblog        NotificationType = "reblog"
	NotificationFavourite     NotificationType = "favourite"
	NotificationFollow        NotificationType = "follow"
	NotificationFollowRequest NotificationType = "follow_request"
)

type Notification struct {
	ID   string
	Type NotificationType
	// Actor is the local actor being notified.
	Actor   *url.URL
	From    *url.URL
	Object  *url.URL
	Created time.Time
}

type Reply struct {
	ID        string
	Actor     *url.URL
	Object    *url.URL
	InReplyTo *url.URL
}
