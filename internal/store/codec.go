package store

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
)

type record struct {
	CourseName string           `json:"courseName"`
	Provider   courses.Provider `json:"provider"`
	Slots      []slots.Slot     `json:"slots"`
	StoredAt   time.Time        `json:"storedAt"`
}

func encodeEntry(e Entry) ([]byte, error) {
	data, err := json.Marshal(record{
		CourseName: e.CourseName,
		Provider:   e.Provider,
		Slots:      cloneSlots(e.Slots),
		StoredAt:   e.StoredAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode cache entry: %w", err)
	}
	return data, nil
}

func decodeEntry(key Key, data []byte) (Entry, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	if r.StoredAt.IsZero() {
		return Entry{}, fmt.Errorf("%w: missing write timestamp", ErrCorruptEntry)
	}
	if r.Slots == nil {
		r.Slots = []slots.Slot{}
	}
	return Entry{
		Key:        key,
		CourseName: r.CourseName,
		Provider:   r.Provider,
		Slots:      r.Slots,
		StoredAt:   r.StoredAt,
	}, nil
}

func encodeSlots(in []slots.Slot) ([]byte, error) {
	data, err := json.Marshal(cloneSlots(in))
	if err != nil {
		return nil, fmt.Errorf("encode slots: %w", err)
	}
	return data, nil
}

func decodeSlots(data []byte) ([]slots.Slot, error) {
	out := []slots.Slot{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: null slot list", ErrCorruptEntry)
	}
	return out, nil
}
