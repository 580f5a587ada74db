package gateway

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sidereusnuntius/gofederate/internal/domain"
	"github.com/sidereusnuntius/gofederate/internal/federation"
)

func TestPublishNote(t *testing.T) {
	d, _, fanout := newDispatcher(t, configuration)
	author := local(t, "publisher")
	parent := storeRemoteNote(t, remote(t, "conversant"), "question", []string{domain.PublicGroup}, nil)

	note := Note{
		Content:        "an answer",
		To:             []string{domain.PublicGroup},
		Cc:             []string{author.FollowersURI()},
		InReplyTo:      parent.Meta.OriginalObjectID,
		IdempotencyKey: "request-1",
	}
	obj, err := d.PublishNote(ctx, author, note)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !obj.Meta.Local || !cache.IsLocal(obj.ID) {
		t.Errorf("expected a local object, got %s", obj.ID)
	}

	if len(fanout.calls) != 1 {
		t.Fatalf("expected one fan-out, got %d", len(fanout.calls))
	}
	create := fanout.calls[0]
	if create["type"] != "Create" || create["actor"] != author.ID.String() {
		t.Errorf("unexpected activity %v", create)
	}

	if n := count(t, "SELECT COUNT(*) FROM outbox_objects WHERE actor_id = ? AND object_id = ?", author.ID.String(), obj.ID.String()); n != 1 {
		t.Errorf("expected one outbox entry, found %d", n)
	}
	if n := count(t, "SELECT COUNT(*) FROM actor_replies WHERE object_id = ? AND in_reply_to_object_id = ?", obj.ID.String(), parent.ID.String()); n != 1 {
		t.Errorf("expected one reply row, found %d", n)
	}

	again, err := d.PublishNote(ctx, author, note)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(obj.ID.String(), again.ID.String()); diff != "" {
		t.Errorf("expected the same note for a repeated key (-want +got):\n%s", diff)
	}
	if len(fanout.calls) != 1 {
		t.Errorf("expected no second fan-out, got %d", len(fanout.calls))
	}

	note.IdempotencyKey = "request-2"
	other, err := d.PublishNote(ctx, author, note)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other.ID.String() == obj.ID.String() {
		t.Error("expected a new note for a new key")
	}
	if len(fanout.calls) != 2 {
		t.Errorf("expected a second fan-out, got %d", len(fanout.calls))
	}
}

func TestPublishNote_KeysAreScopedToAuthor(t *testing.T) {
	d, _, _ := newDispatcher(t, configuration)
	first := local(t, "scopeone")
	second := local(t, "scopetwo")

	note := Note{Content: "same key", To: []string{domain.PublicGroup}, IdempotencyKey: "shared"}
	a, err := d.PublishNote(ctx, first, note)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := d.PublishNote(ctx, second, note)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID.String() == b.ID.String() {
		t.Error("expected idempotency keys of different authors not to collide")
	}
}

func TestPublishNote_RemoteAuthor(t *testing.T) {
	d, _, fanout := newDispatcher(t, configuration)
	_, err := d.PublishNote(ctx, remote(t, "impostor"), Note{Content: "hi"})
	if !errors.Is(err, federation.ErrPrecondition) {
		t.Errorf("expected a precondition error, got %v", err)
	}
	if len(fanout.calls) != 0 {
		t.Errorf("expected no fan-out, got %d", len(fanout.calls))
	}
}
