package conversions

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"code.superseriousbusiness.org/activity/streams"
	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/sidereusnuntius/gofederate/internal/domain"
)

// NewAccept builds an Accept of follow, embedding the Follow document as received.
func NewAccept(ctx context.Context, id, actor *url.URL, follow map[string]any) (vocab.ActivityStreamsAccept, error) {
	a := streams.NewActivityStreamsAccept()
	idProp := streams.NewJSONLDIdProperty()
	idProp.SetIRI(id)
	a.SetJSONLDId(idProp)

	actorProp := streams.NewActivityStreamsActorProperty()
	actorProp.AppendIRI(actor)
	a.SetActivityStreamsActor(actorProp)

	followType, err := streams.ToType(ctx, follow)
	if err != nil {
		return nil, fmt.Errorf("embedding follow: %w", err)
	}
	objProp := streams.NewActivityStreamsObjectProperty()
	if err = objProp.AppendType(followType); err != nil {
		return nil, fmt.Errorf("embedding follow: %w", err)
	}
	a.SetActivityStreamsObject(objProp)

	if follower, ok := follow["actor"].(string); ok {
		if u, err := url.Parse(follower); err == nil {
			to := streams.NewActivityStreamsToProperty()
			to.AppendIRI(u)
			a.SetActivityStreamsTo(to)
		}
	}
	return a, nil
}

func NewFollow(id, actor, object *url.URL) vocab.ActivityStreamsFollow {
	f := streams.NewActivityStreamsFollow()
	idProp := streams.NewJSONLDIdProperty()
	idProp.SetIRI(id)
	f.SetJSONLDId(idProp)

	actorProp := streams.NewActivityStreamsActorProperty()
	actorProp.AppendIRI(actor)
	f.SetActivityStreamsActor(actorProp)

	objProp := streams.NewActivityStreamsObjectProperty()
	objProp.AppendIRI(object)
	f.SetActivityStreamsObject(objProp)

	to := streams.NewActivityStreamsToProperty()
	to.AppendIRI(object)
	f.SetActivityStreamsTo(to)
	return f
}

// NewNote builds the Note for a locally authored object.
func NewNote(obj domain.Object) (vocab.ActivityStreamsNote, error) {
	n := streams.NewActivityStreamsNote()
	id := streams.NewJSONLDIdProperty()
	id.SetIRI(obj.ID)
	n.SetJSONLDId(id)

	attributedTo := streams.NewActivityStreamsAttributedToProperty()
	attributedTo.AppendIRI(obj.Meta.OriginalActorID)
	n.SetActivityStreamsAttributedTo(attributedTo)

	content := streams.NewActivityStreamsContentProperty()
	content.AppendXMLSchemaString(obj.Content())
	n.SetActivityStreamsContent(content)

	if summary, ok := obj.Properties["summary"].(string); ok && summary != "" {
		s := streams.NewActivityStreamsSummaryProperty()
		s.AppendXMLSchemaString(summary)
		n.SetActivityStreamsSummary(s)
	}

	to, err := iris(obj.To())
	if err != nil {
		return nil, err
	}
	toProp := streams.NewActivityStreamsToProperty()
	for _, u := range to {
		toProp.AppendIRI(u)
	}
	n.SetActivityStreamsTo(toProp)

	cc, err := iris(obj.Cc())
	if err != nil {
		return nil, err
	}
	ccProp := streams.NewActivityStreamsCcProperty()
	for _, u := range cc {
		ccProp.AppendIRI(u)
	}
	n.SetActivityStreamsCc(ccProp)

	if reply := obj.InReplyTo(); reply != nil {
		inReplyTo := streams.NewActivityStreamsInReplyToProperty()
		inReplyTo.AppendIRI(reply)
		n.SetActivityStreamsInReplyTo(inReplyTo)
	}

	published := streams.NewActivityStreamsPublishedProperty()
	published.Set(obj.Published)
	n.SetActivityStreamsPublished(published)
	return n, nil
}

// NewCreate wraps object in a Create addressed like the object itself.
func NewCreate(id, actor *url.URL, object vocab.ActivityStreamsNote, published time.Time) vocab.ActivityStreamsCreate {
	c := streams.NewActivityStreamsCreate()
	idProp := streams.NewJSONLDIdProperty()
	idProp.SetIRI(id)
	c.SetJSONLDId(idProp)

	actorProp := streams.NewActivityStreamsActorProperty()
	actorProp.AppendIRI(actor)
	c.SetActivityStreamsActor(actorProp)

	objProp := streams.NewActivityStreamsObjectProperty()
	objProp.AppendActivityStreamsNote(object)
	c.SetActivityStreamsObject(objProp)

	if to := object.GetActivityStreamsTo(); to != nil {
		toProp := streams.NewActivityStreamsToProperty()
		for iter := to.Begin(); iter != to.End(); iter = iter.Next() {
			toProp.AppendIRI(iter.GetIRI())
		}
		c.SetActivityStreamsTo(toProp)
	}
	if cc := object.GetActivityStreamsCc(); cc != nil {
		ccProp := streams.NewActivityStreamsCcProperty()
		for iter := cc.Begin(); iter != cc.End(); iter = iter.Next() {
			ccProp.AppendIRI(iter.GetIRI())
		}
		c.SetActivityStreamsCc(ccProp)
	}

	p := streams.NewActivityStreamsPublishedProperty()
	p.Set(published)
	c.SetActivityStreamsPublished(p)
	return c
}

// Serialize returns the JSON-LD map of t.
func Serialize(t vocab.Type) (map[string]any, error) {
	return streams.Serialize(t)
}

func iris(list []string) ([]*url.URL, error) {
	out := make([]*url.URL, 0, len(list))
	for _, s := range list {
		u, err := url.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
