package gateway

import (
	"fmt"
	"testing"

	"github.com/sidereusnuntius/gofederate/internal/domain"
)

func announce(id string, actor domain.Actor, object string, to, cc []string) map[string]any {
	return map[string]any{
		"id":        id,
		"type":      "Announce",
		"actor":     actor.ID.String(),
		"object":    object,
		"to":        toAny(to),
		"cc":        toAny(cc),
		"published": "2026-01-02T15:04:05Z",
	}
}

func TestHandleAnnounce_Duplicate(t *testing.T) {
	d, _, _ := newDispatcher(t, configuration)
	author := remote(t, "boosted")
	booster := remote(t, "booster")
	note := storeRemoteNote(t, author, "popular", []string{domain.PublicGroup}, []string{author.FollowersURI()})

	a := announce("https://remote.example/announces/dup", booster, note.Meta.OriginalObjectID.String(),
		[]string{domain.PublicGroup}, []string{booster.FollowersURI()})
	for i := 0; i < 2; i++ {
		if err := d.Handle(ctx, parse(t, a)); err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i, err)
		}
	}

	if n := count(t, "SELECT COUNT(*) FROM actor_reblogs WHERE object_id = ?", note.ID.String()); n != 1 {
		t.Errorf("expected one reblog, found %d", n)
	}
	if n := count(t, "SELECT COUNT(*) FROM outbox_objects WHERE actor_id = ? AND object_id = ?", booster.ID.String(), note.ID.String()); n != 1 {
		t.Errorf("expected one outbox entry, found %d", n)
	}

	undo := map[string]any{
		"id":     "https://remote.example/undos/announce",
		"type":   "Undo",
		"actor":  booster.ID.String(),
		"object": a,
	}
	if err := d.Handle(ctx, parse(t, undo)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := count(t, "SELECT COUNT(*) FROM actor_reblogs WHERE object_id = ?", note.ID.String()); n != 0 {
		t.Errorf("expected the reblog to be removed, found %d", n)
	}
	if n := count(t, "SELECT COUNT(*) FROM outbox_objects WHERE actor_id = ? AND object_id = ?", booster.ID.String(), note.ID.String()); n != 0 {
		t.Errorf("expected the outbox entry to be removed, found %d", n)
	}
}

func TestHandleAnnounce_NotifiesLocalAuthor(t *testing.T) {
	d, _, _ := newDispatcher(t, configuration)
	author := local(t, "famous")
	booster := remote(t, "fan")
	note, err := cache.CreateObject(ctx, author, map[string]any{
		"content": "boost me",
		"to":      []any{domain.PublicGroup},
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	a := announce("https://remote.example/announces/famous", booster, note.ID.String(), []string{domain.PublicGroup}, nil)
	if err := d.Handle(ctx, parse(t, a)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := count(t, "SELECT COUNT(*) FROM actor_notifications WHERE actor_id = ? AND type = ? AND from_actor_id = ?", author.ID.String(), domain.NotificationReblog, booster.ID.String()); n != 1 {
		t.Errorf("expected one reblog notification, found %d", n)
	}
}

func TestHandleAnnounce_Permissions(t *testing.T) {
	d, _, _ := newDispatcher(t, configuration)
	carol := remote(t, "carolr")
	dave := remote(t, "daver")
	erin := "https://remote.example/users/erinr"
	public := domain.PublicGroup
	followers := carol.FollowersURI()

	tests := []struct {
		name      string
		post      [2][]string
		announcer domain.Actor
		audience  [2][]string
		allowed   bool
	}{
		{"other reblogs public", [2][]string{{public}, nil}, dave, [2][]string{{public}, nil}, true},
		{"other reblogs unlisted", [2][]string{{followers}, {public}}, dave, [2][]string{{public}, nil}, true},
		{"other reblogs private", [2][]string{{followers}, nil}, dave, [2][]string{{dave.FollowersURI()}, nil}, false},
		{"other reblogs direct", [2][]string{{erin}, nil}, dave, [2][]string{{erin}, nil}, false},
		{"author reblogs public", [2][]string{{public}, nil}, carol, [2][]string{{public}, nil}, true},
		{"author reblogs unlisted", [2][]string{{followers}, {public}}, carol, [2][]string{{public}, nil}, true},
		{"author reblogs private to followers", [2][]string{{followers}, nil}, carol, [2][]string{{followers}, nil}, true},
		{"author reblogs private to public", [2][]string{{followers}, nil}, carol, [2][]string{{public}, nil}, false},
		{"author reblogs private cc public", [2][]string{{followers}, nil}, carol, [2][]string{{followers}, {public}}, false},
		{"author reblogs direct to fewer recipients", [2][]string{{erin, dave.ID.String()}, nil}, carol, [2][]string{{erin}, nil}, true},
		{"author reblogs direct to same recipients", [2][]string{{erin}, nil}, carol, [2][]string{{erin}, nil}, true},
		{"author reblogs direct to new recipient", [2][]string{{erin}, nil}, carol, [2][]string{{erin, dave.ID.String()}, nil}, false},
		{"author reblogs direct to public", [2][]string{{erin}, nil}, carol, [2][]string{{public}, nil}, false},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := storeRemoteNote(t, carol, fmt.Sprintf("matrix-%d", i), tt.post[0], tt.post[1])
			id := fmt.Sprintf("https://remote.example/announces/matrix-%d", i)

			a := announce(id, tt.announcer, note.Meta.OriginalObjectID.String(), tt.audience[0], tt.audience[1])
			if err := d.Handle(ctx, parse(t, a)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			stored := count(t, "SELECT COUNT(*) FROM actor_reblogs WHERE id = ?", id) == 1
			if stored != tt.allowed {
				t.Errorf("expected allowed=%v, reblog stored=%v", tt.allowed, stored)
			}
		})
	}
}

func TestHandleLike(t *testing.T) {
	d, _, _ := newDispatcher(t, configuration)
	author := local(t, "likeable")
	liker := remote(t, "liker")
	note, err := cache.CreateObject(ctx, author, map[string]any{
		"content": "like me",
		"to":      []any{domain.PublicGroup},
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	like := map[string]any{
		"id":     "https://remote.example/likes/1",
		"type":   "Like",
		"actor":  liker.ID.String(),
		"object": note.ID.String(),
	}
	for i := 0; i < 2; i++ {
		if err := d.Handle(ctx, parse(t, like)); err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i, err)
		}
	}
	if n := count(t, "SELECT COUNT(*) FROM actor_favourites WHERE object_id = ?", note.ID.String()); n != 1 {
		t.Errorf("expected one like, found %d", n)
	}
	if n := count(t, "SELECT COUNT(*) FROM actor_notifications WHERE actor_id = ? AND type = ?", author.ID.String(), domain.NotificationFavourite); n != 1 {
		t.Errorf("expected one favourite notification, found %d", n)
	}

	unknown := map[string]any{
		"id":     "https://remote.example/likes/2",
		"type":   "Like",
		"actor":  liker.ID.String(),
		"object": "https://remote.example/notes/unknown",
	}
	if err := d.Handle(ctx, parse(t, unknown)); err != nil {
		t.Errorf("expected likes of unknown objects to be ignored, got %v", err)
	}

	undo := map[string]any{
		"id":     "https://remote.example/undos/like",
		"type":   "Undo",
		"actor":  liker.ID.String(),
		"object": like,
	}
	if err := d.Handle(ctx, parse(t, undo)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := count(t, "SELECT COUNT(*) FROM actor_favourites WHERE object_id = ?", note.ID.String()); n != 0 {
		t.Errorf("expected the like to be removed, found %d", n)
	}
}

func TestHandleUndo_ActorMismatch(t *testing.T) {
	d, _, _ := newDispatcher(t, configuration)
	undo := map[string]any{
		"id":    "https://remote.example/undos/forged",
		"type":  "Undo",
		"actor": "https://remote.example/users/mallory",
		"object": map[string]any{
			"id":     "https://remote.example/likes/3",
			"type":   "Like",
			"actor":  "https://remote.example/users/liker",
			"object": "https://local.example/ap/objects/1",
		},
	}
	err := d.Handle(ctx, parse(t, undo))
	if err == nil || err.Error() != "actor.id mismatch when undoing activity" {
		t.Errorf("unexpected error %v", err)
	}
}
