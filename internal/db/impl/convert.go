package impl

import (
	"database/sql"
	"encoding/json"
	"net/url"
	"time"

	"github.com/sidereusnuntius/gofederate/internal/db/impl/queries"
	"github.com/sidereusnuntius/gofederate/internal/domain"
)

func nullString(s string) sql.NullString {
	return sql.NullString{
		Valid:  s != "",
		String: s,
	}
}

func nullURL(u *url.URL) sql.NullString {
	if u == nil {
		return sql.NullString{}
	}
	return nullString(u.String())
}

func nullTime(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{
		Valid: true,
		Int64: t.UnixMilli(),
	}
}

// parseURL parses IRIs read back from the database. They were validated before being stored, so a failure
// yields nil rather than an error.
func parseURL(s string) *url.URL {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil
	}
	return u
}

func parseNullURL(s sql.NullString) *url.URL {
	if !s.Valid {
		return nil
	}
	return parseURL(s.String)
}

func fromMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// aliases decodes the also_known_as column. The column is only written by encodeList, so a malformed value
// is read as no aliases.
func aliases(s string) []string {
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil || len(list) == 0 {
		return nil
	}
	return list
}

func encodeList(list []string) string {
	b, _ := json.Marshal(nonNil(list))
	return string(b)
}

func parseURLs(ids []string) []*url.URL {
	list := make([]*url.URL, 0, len(ids))
	for _, id := range ids {
		if u := parseURL(id); u != nil {
			list = append(list, u)
		}
	}
	return list
}

func actorFromRow(row queries.Actor) domain.Actor {
	return domain.Actor{
		ID:          parseURL(row.ID),
		MastodonID:  row.MastodonID,
		Type:        row.Type,
		Username:    row.Username.String,
		Domain:      row.Domain,
		Name:        row.Name.String,
		Summary:     row.Summary.String,
		Inbox:       parseURL(row.Inbox),
		Outbox:      parseNullURL(row.Outbox),
		Followers:   parseNullURL(row.Followers),
		Following:   parseNullURL(row.Following),
		AlsoKnownAs: aliases(row.AlsoKnownAs),
		PublicKey:   row.PublicKey.String,
		Local:       row.Local,
		Created:     fromMilli(row.Created),
	}
}

func objectFromRow(row queries.Object) (domain.Object, error) {
	var props map[string]any
	if err := json.Unmarshal([]byte(row.Properties), &props); err != nil {
		return domain.Object{}, err
	}
	obj := domain.Object{
		ID:         parseURL(row.ID),
		Type:       row.Type,
		Properties: props,
		Published:  fromMilli(row.Published),
		Meta: domain.ObjectMeta{
			MastodonID:       row.MastodonID,
			OriginalObjectID: parseNullURL(row.OriginalObjectID),
			OriginalActorID:  parseURL(row.OriginalActorID),
			Local:            row.Local,
		},
	}
	if row.Updated.Valid {
		obj.Updated = fromMilli(row.Updated.Int64)
	}
	return obj, nil
}

func outboxEntryFromRow(row queries.OutboxObject) (domain.OutboxEntry, error) {
	entry := domain.OutboxEntry{
		ID:        row.ID,
		Actor:     parseURL(row.ActorID),
		Object:    parseURL(row.ObjectID),
		Published: fromMilli(row.Published),
	}
	if err := json.Unmarshal([]byte(row.ToJson), &entry.To); err != nil {
		return entry, err
	}
	err := json.Unmarshal([]byte(row.CcJson), &entry.Cc)
	return entry, err
}

func followFromRow(row queries.ActorFollowing) domain.Follow {
	return domain.Follow{
		ID:           row.ID,
		Follower:     parseURL(row.ActorID),
		Followee:     parseURL(row.TargetActorID),
		FolloweeAcct: row.TargetActorAcct,
		State:        domain.FollowState(row.State),
		Created:      fromMilli(row.Created),
	}
}
