// Package store holds the slot cache: one entry per course and search criteria,
// replaced wholesale on every write and judged fresh by its write timestamp.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
)

// ErrCorruptEntry is returned when a stored payload cannot be decoded. Callers treat it as a miss.
var ErrCorruptEntry = errors.New("corrupt cache entry")

const keyVersion = "v1"

// Key identifies one cached course lookup. Holes == 0 and empty bounds mean
// unspecified, and only ever match entries stored the same way.
type Key struct {
	CourseID  string
	Date      string
	Holes     int
	PartySize int
	Earliest  string
	Latest    string
}

// KeyFor builds the cache key for a course under the given criteria.
func KeyFor(courseID string, c slots.SearchCriteria) Key {
	c = c.WithDefaults()
	return Key{
		CourseID:  courseID,
		Date:      c.Date,
		Holes:     c.Holes,
		PartySize: c.PartySize,
		Earliest:  c.Earliest,
		Latest:    c.Latest,
	}
}

func (k Key) String() string {
	holes := "any"
	if k.Holes > 0 {
		holes = fmt.Sprint(k.Holes)
	}
	return fmt.Sprintf("teetimes:%s:%s:%s:h%s:p%d:%s-%s",
		keyVersion, segmentEscaper.Replace(k.CourseID), segmentEscaper.Replace(k.Date), holes, k.PartySize, bound(k.Earliest), bound(k.Latest))
}

// segmentEscaper keeps ':' inside a field from reading as a key separator.
var segmentEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

func bound(v string) string {
	if v == "" {
		return "any"
	}
	return v
}

// Entry is one cached slot list.
type Entry struct {
	Key        Key
	CourseName string
	Provider   courses.Provider
	Slots      []slots.Slot
	StoredAt   time.Time
}

// Fresh reports whether the entry is younger than ttl at now.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	if e.StoredAt.IsZero() {
		return false
	}
	return now.Sub(e.StoredAt) < ttl
}

// SlotCache is the shared store in front of live fetches. Implementations must be
// safe for concurrent use, and a Store must replace a key's full value atomically.
type SlotCache interface {
	Lookup(ctx context.Context, key Key) (Entry, bool, error)
	Store(ctx context.Context, entry Entry) error
}

// Pruner is implemented by backends that keep entries until told to drop them.
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Time) (int, error)
}

func cloneSlots(in []slots.Slot) []slots.Slot {
	out := make([]slots.Slot, len(in))
	copy(out, in)
	return out
}
