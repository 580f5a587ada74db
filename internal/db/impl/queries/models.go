package queries

import (
	"database/sql"
)

type Actor struct {
	ID          string
	MastodonID  string
	Type        string
	Username    sql.NullString
	Domain      string
	Name        sql.NullString
	Summary     sql.NullString
	Inbox       string
	Outbox      sql.NullString
	Followers   sql.NullString
	Following   sql.NullString
	AlsoKnownAs string
	PublicKey   sql.NullString
	PrivateKey  []byte
	Local       bool
	Created     int64
	LastFetched sql.NullInt64
}

type ActorFavourite struct {
	ID         string
	ActorID    string
	ObjectID   string
	ActivityID sql.NullString
	Created    int64
}

type ActorFollowing struct {
	ID              string
	ActorID         string
	TargetActorID   string
	TargetActorAcct string
	State           string
	Created         int64
}

type ActorNotification struct {
	ID          string
	Type        string
	ActorID     string
	FromActorID string
	ObjectID    sql.NullString
	Created     int64
}

type ActorReblog struct {
	ID             string
	MastodonID     string
	ActorID        string
	ObjectID       string
	OutboxObjectID string
	Created        int64
}

type ActorReply struct {
	ID                string
	ActorID           string
	ObjectID          string
	InReplyToObjectID string
	Created           int64
}

type Object struct {
	ID               string
	MastodonID       string
	Type             string
	OriginalActorID  string
	OriginalObjectID sql.NullString
	Local            bool
	Properties       string
	Published        int64
	Updated          sql.NullInt64
}

type ObjectRevision struct {
	ID       int64
	ObjectID string
	Patch    string
	Created  int64
}

type OutboxObject struct {
	ID        string
	ActorID   string
	ObjectID  string
	ToJson    string
	CcJson    string
	Published int64
}
