package cache

import (
	"testing"
	"time"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open("", nil)
	if err != nil {
		t.Fatalf("open in-memory cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSetGet(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("stats:user-1", []byte(`{"total":4}`), TTLMedium, UserStatsTag("user-1")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := c.Get("stats:user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if string(got) != `{"total":4}` {
		t.Errorf("value: got %s", got)
	}

	_, ok, err = c.Get("stats:user-2")
	if err != nil {
		t.Fatalf("Get miss: %v", err)
	}
	if ok {
		t.Error("expected a miss for an unknown key")
	}
}

func TestInvalidateByTag(t *testing.T) {
	c := newTestCache(t)

	// Two entries share a tag, a third does not.
	if err := c.Set("books:user-1", []byte("a"), TTLShort, UserBooksTag("user-1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set("stats:user-1", []byte("b"), TTLShort, UserBooksTag("user-1"), UserStatsTag("user-1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set("books:user-2", []byte("c"), TTLShort, UserBooksTag("user-2")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := c.Invalidate(UserBooksTag("user-1")); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	for _, key := range []string{"books:user-1", "stats:user-1"} {
		if _, ok, _ := c.Get(key); ok {
			t.Errorf("%s survived invalidation", key)
		}
	}
	if _, ok, _ := c.Get("books:user-2"); !ok {
		t.Error("books:user-2 dropped by another user's invalidation")
	}
}

func TestInvalidateUnknownTag(t *testing.T) {
	c := newTestCache(t)
	if err := c.Invalidate(ListTag("no-such-list")); err != nil {
		t.Fatalf("invalidating an unused tag should be a no-op: %v", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	c := newTestCache(t)

	type payload struct {
		Total int `json:"total"`
	}

	if err := c.SetJSON("stats:user-1", payload{Total: 7}, TTLMedium, UserStatsTag("user-1")); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	var out payload
	ok, err := c.GetJSON("stats:user-1", &out)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if !ok || out.Total != 7 {
		t.Errorf("got ok=%v total=%d, want hit with 7", ok, out.Total)
	}
}

func TestDispatcherTagSets(t *testing.T) {
	rec := &recordingInvalidator{}
	d := NewDispatcher(rec, nil)

	if err := d.LinkChanged("user-1", "book-9", "sci-fi-canon"); err != nil {
		t.Fatalf("LinkChanged: %v", err)
	}
	want := []string{
		UserBooksTag("user-1"),
		UserListLinksTag("user-1"),
		UserChallengeTag("user-1"),
		UserStatsTag("user-1"),
		BookTag("book-9"),
		ListTag("sci-fi-canon"),
	}
	assertTags(t, rec.last, want)

	// A link without a personal copy carries no book tag.
	if err := d.LinkChanged("user-1", ""); err != nil {
		t.Fatalf("LinkChanged without book: %v", err)
	}
	for _, tag := range rec.last {
		if tag == BookTag("") {
			t.Error("empty book ID produced a book tag")
		}
	}

	if err := d.BookChanged("user-1", "book-9"); err != nil {
		t.Fatalf("BookChanged: %v", err)
	}
	assertTags(t, rec.last, []string{
		BookTag("book-9"),
		UserBooksTag("user-1"),
		UserStatsTag("user-1"),
		UserLibraryTag("user-1"),
	})
}

type recordingInvalidator struct {
	last []string
}

func (r *recordingInvalidator) Invalidate(tags ...string) error {
	r.last = tags
	return nil
}

func assertTags(t *testing.T, got, want []string) {
	t.Helper()
	seen := make(map[string]bool, len(got))
	for _, tag := range got {
		seen[tag] = true
	}
	for _, tag := range want {
		if !seen[tag] {
			t.Errorf("missing tag %s in %v", tag, got)
		}
	}
	if len(got) != len(want) {
		t.Errorf("tag count: got %d (%v), want %d", len(got), got, len(want))
	}
}

func TestTTLExpiry(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set("blip", []byte("x"), 50*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if _, ok, _ := c.Get("blip"); ok {
		t.Error("entry outlived its TTL")
	}
}
