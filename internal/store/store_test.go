package store

import (
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
)

func TestKeyForAppliesDefaults(t *testing.T) {
	k := KeyFor("papago", slots.SearchCriteria{Date: "2024-06-01"})
	if k.PartySize != 1 || k.Holes != 0 {
		t.Fatalf("unexpected key %+v", k)
	}
	if got := k.String(); got != "teetimes:v1:papago:2024-06-01:hany:p1:any-any" {
		t.Fatalf("unexpected key string %s", got)
	}

	narrow := KeyFor("papago", slots.SearchCriteria{Date: "2024-06-01", Holes: 18, PartySize: 3, Earliest: "07:00", Latest: "10:00"})
	if got := narrow.String(); got != "teetimes:v1:papago:2024-06-01:h18:p3:07:00-10:00" {
		t.Fatalf("unexpected key string %s", got)
	}
	if narrow.String() == k.String() {
		t.Fatalf("expected distinct keys")
	}
}

func TestKeyStringEscapesSeparatorsInFields(t *testing.T) {
	a := Key{CourseID: "a:2024-06-01", Date: "x", PartySize: 1}
	b := Key{CourseID: "a", Date: "2024-06-01:x", PartySize: 1}
	if a.String() == b.String() {
		t.Fatalf("expected distinct keys, both were %s", a.String())
	}
	if got := a.String(); got != "teetimes:v1:a%3A2024-06-01:x:hany:p1:any-any" {
		t.Fatalf("unexpected key string %s", got)
	}
	pct := Key{CourseID: "a%3A2024-06-01", Date: "x", PartySize: 1}
	if pct.String() == a.String() {
		t.Fatalf("expected literal percent to stay distinct from an escaped colon")
	}
}

func TestEntryFresh(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	e := Entry{StoredAt: now.Add(-9 * time.Minute)}
	if !e.Fresh(now, 10*time.Minute) {
		t.Fatalf("expected entry to be fresh")
	}
	e.StoredAt = now.Add(-10 * time.Minute)
	if e.Fresh(now, 10*time.Minute) {
		t.Fatalf("expected entry at the window edge to be stale")
	}
	if (Entry{}).Fresh(now, time.Hour) {
		t.Fatalf("expected zero timestamp to be stale")
	}
}

func TestDecodeEntryRejectsCorruptPayloads(t *testing.T) {
	for _, raw := range []string{"not json", "null", `{"slots":[]}`} {
		if _, err := decodeEntry(Key{}, []byte(raw)); !errors.Is(err, ErrCorruptEntry) {
			t.Fatalf("%q: expected ErrCorruptEntry, got %v", raw, err)
		}
	}
}

func TestEncodeEntryKeepsEmptyListDistinctFromNil(t *testing.T) {
	data, err := encodeEntry(Entry{StoredAt: time.Now(), Slots: nil})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	e, err := decodeEntry(Key{}, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Slots == nil || len(e.Slots) != 0 {
		t.Fatalf("expected empty non-nil slot list, got %#v", e.Slots)
	}
}
