package conversions

import (
	"context"
	"fmt"
	"net/url"

	"code.superseriousbusiness.org/activity/streams"
	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation"
)

// ActorFromMap parses a fetched actor document.
func ActorFromMap(ctx context.Context, m map[string]any) (domain.Actor, error) {
	t, err := streams.ToType(ctx, m)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %s", federation.ErrUnprocessablePropValue, err)
	}
	return ActorFromType(t)
}

func ActorFromType(t vocab.Type) (a domain.Actor, err error) {
	actor, ok := t.(actorLike)
	if !ok {
		err = fmt.Errorf("%w: %s is not an actor type", federation.ErrUnsupported, t.GetTypeName())
		return
	}

	idProp := actor.GetJSONLDId()
	if idProp == nil || idProp.Get() == nil {
		err = fmt.Errorf("%w: id", federation.ErrMissingProperty)
		return
	}
	a.ID = idProp.Get()
	a.Type = actor.GetTypeName()
	a.Domain = a.ID.Host

	if username := actor.GetActivityStreamsPreferredUsername(); username != nil {
		a.Username = username.GetXMLSchemaString()
	}

	if name := actor.GetActivityStreamsName(); name != nil && name.Len() != 0 {
		a.Name = name.Begin().GetXMLSchemaString()
	}

	if summary := actor.GetActivityStreamsSummary(); summary != nil && summary.Len() != 0 {
		a.Summary = summary.Begin().GetXMLSchemaString()
	}

	inbox := actor.GetActivityStreamsInbox()
	if inbox == nil {
		err = fmt.Errorf("%w: inbox", federation.ErrMissingProperty)
		return
	}
	if !inbox.IsIRI() {
		err = fmt.Errorf("%w: inbox", federation.ErrUnprocessablePropValue)
		return
	}
	a.Inbox = inbox.GetIRI()

	if outbox := actor.GetActivityStreamsOutbox(); outbox != nil && outbox.IsIRI() {
		a.Outbox = outbox.GetIRI()
	}

	if followers := actor.GetActivityStreamsFollowers(); followers != nil && followers.IsIRI() {
		a.Followers = followers.GetIRI()
	}

	if following := actor.GetActivityStreamsFollowing(); following != nil && following.IsIRI() {
		a.Following = following.GetIRI()
	}

	if aka := actor.GetActivityStreamsAlsoKnownAs(); aka != nil {
		for it := aka.Begin(); it != aka.End(); it = it.Next() {
			switch {
			case it.IsXMLSchemaAnyURI():
				a.AlsoKnownAs = append(a.AlsoKnownAs, it.Get().String())
			case it.IsIRI():
				a.AlsoKnownAs = append(a.AlsoKnownAs, it.GetIRI().String())
			}
		}
	}

	if key, keyErr := ExtractPublicKeyFromActor(actor); keyErr == nil {
		a.PublicKey = key
	}
	return
}

// ActorToType builds the ActivityStreams document served for a local actor.
func ActorToType(a domain.Actor) vocab.Type {
	var obj interface {
		actorLike
		SetJSONLDId(vocab.JSONLDIdProperty)
		SetActivityStreamsPreferredUsername(vocab.ActivityStreamsPreferredUsernameProperty)
		SetActivityStreamsName(vocab.ActivityStreamsNameProperty)
		SetActivityStreamsSummary(vocab.ActivityStreamsSummaryProperty)
		SetActivityStreamsInbox(vocab.ActivityStreamsInboxProperty)
		SetActivityStreamsOutbox(vocab.ActivityStreamsOutboxProperty)
		SetActivityStreamsFollowers(vocab.ActivityStreamsFollowersProperty)
		SetActivityStreamsFollowing(vocab.ActivityStreamsFollowingProperty)
		SetActivityStreamsAlsoKnownAs(vocab.ActivityStreamsAlsoKnownAsProperty)
	}
	switch a.Type {
	case domain.ServiceType:
		obj = streams.NewActivityStreamsService()
	case domain.ApplicationType:
		obj = streams.NewActivityStreamsApplication()
	default:
		obj = streams.NewActivityStreamsPerson()
	}

	id := streams.NewJSONLDIdProperty()
	id.SetIRI(a.ID)
	obj.SetJSONLDId(id)

	username := streams.NewActivityStreamsPreferredUsernameProperty()
	username.SetXMLSchemaString(a.Username)
	obj.SetActivityStreamsPreferredUsername(username)

	if a.Name != "" {
		name := streams.NewActivityStreamsNameProperty()
		name.AppendXMLSchemaString(a.Name)
		obj.SetActivityStreamsName(name)
	}

	if a.Summary != "" {
		summary := streams.NewActivityStreamsSummaryProperty()
		summary.AppendXMLSchemaString(a.Summary)
		obj.SetActivityStreamsSummary(summary)
	}

	inbox := streams.NewActivityStreamsInboxProperty()
	inbox.SetIRI(a.Inbox)
	obj.SetActivityStreamsInbox(inbox)

	if a.Outbox != nil {
		outbox := streams.NewActivityStreamsOutboxProperty()
		outbox.SetIRI(a.Outbox)
		obj.SetActivityStreamsOutbox(outbox)
	}

	if a.Followers != nil {
		followers := streams.NewActivityStreamsFollowersProperty()
		followers.SetIRI(a.Followers)
		obj.SetActivityStreamsFollowers(followers)
	}

	if a.Following != nil {
		following := streams.NewActivityStreamsFollowingProperty()
		following.SetIRI(a.Following)
		obj.SetActivityStreamsFollowing(following)
	}

	if len(a.AlsoKnownAs) != 0 {
		aka := streams.NewActivityStreamsAlsoKnownAsProperty()
		for _, alias := range a.AlsoKnownAs {
			if u, err := url.Parse(alias); err == nil {
				aka.AppendIRI(u)
			}
		}
		obj.SetActivityStreamsAlsoKnownAs(aka)
	}

	if a.PublicKey != "" {
		obj.SetW3IDSecurityV1PublicKey(PublicKeyProp(a.ID, a.PublicKey))
	}
	return obj
}

func PublicKeyProp(owner *url.URL, publicKeyPem string) vocab.W3IDSecurityV1PublicKeyProperty {
	keyProp := streams.NewW3IDSecurityV1PublicKeyProperty()
	key := streams.NewW3IDSecurityV1PublicKey()

	ownerProp := streams.NewW3IDSecurityV1OwnerProperty()
	ownerProp.SetIRI(owner)

	keyURI := *owner
	keyURI.Fragment = "main-key"
	keyURIProp := streams.NewJSONLDIdProperty()
	keyURIProp.SetIRI(&keyURI)

	pemProp := streams.NewW3IDSecurityV1PublicKeyPemProperty()
	pemProp.Set(publicKeyPem)

	key.SetJSONLDId(keyURIProp)
	key.SetW3IDSecurityV1PublicKeyPem(pemProp)
	key.SetW3IDSecurityV1Owner(ownerProp)

	keyProp.AppendW3IDSecurityV1PublicKey(key)
	return keyProp
}
