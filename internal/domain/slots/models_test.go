package slots

import (
	"reflect"
	"testing"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
)

func TestNormalizeDerivesFreeSpotsAndAvailability(t *testing.T) {
	cases := []struct {
		name      string
		in        Slot
		wantFree  *int
		available bool
	}{
		{"max and booked", Slot{MaxPlayers: Int(4), Booked: Int(1)}, Int(3), true},
		{"fully booked", Slot{MaxPlayers: Int(4), Booked: Int(4)}, Int(0), false},
		{"overbooked clamps to zero", Slot{MaxPlayers: Int(4), Booked: Int(6)}, Int(0), false},
		{"free above max clamps", Slot{MaxPlayers: Int(2), FreeSpots: Int(4)}, Int(2), true},
		{"negative free clamps", Slot{FreeSpots: Int(-1)}, Int(0), false},
		{"unknown stays unknown", Slot{Available: true}, nil, true},
		{"max only keeps free unknown", Slot{MaxPlayers: Int(4), Available: true}, nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if !reflect.DeepEqual(got.FreeSpots, tc.wantFree) {
				t.Fatalf("expected free %v, got %v", deref(tc.wantFree), deref(got.FreeSpots))
			}
			if got.Available != tc.available {
				t.Fatalf("expected available=%v, got %v", tc.available, got.Available)
			}
			if got.FreeSpots != nil && got.MaxPlayers != nil && (*got.FreeSpots < 0 || *got.FreeSpots > *got.MaxPlayers) {
				t.Fatalf("free spots out of range: %d of %d", *got.FreeSpots, *got.MaxPlayers)
			}
		})
	}
}

func TestWithAvailability(t *testing.T) {
	open := Slot{}.WithAvailability(true)
	if !open.Available || open.CapacityKnown() {
		t.Fatalf("expected open slot with unknown capacity, got %+v", open)
	}

	closed := Slot{}.WithAvailability(false)
	if closed.Available || closed.FreeSpots == nil || *closed.FreeSpots != 0 {
		t.Fatalf("expected closed slot with zero free spots, got %+v", closed)
	}
}

func TestForCourseCopiesDenormalizedFields(t *testing.T) {
	c := courses.Course{ID: "c1", Name: "Course One", Provider: courses.ProviderQuick18, BookingURL: "https://example.com"}
	s := ForCourse(c, "2024-05-01", "07:10")
	if s.CourseID != "c1" || s.CourseName != "Course One" || s.Provider != courses.ProviderQuick18 {
		t.Fatalf("unexpected course fields %+v", s)
	}
	if s.Date != "2024-05-01" || s.Time != "07:10" || s.BookingURL != "https://example.com" {
		t.Fatalf("unexpected slot fields %+v", s)
	}
}

func TestSlotJSONTags(t *testing.T) {
	typ := reflect.TypeOf(Slot{})
	want := map[string]string{
		"CourseName": "courseName",
		"FreeSpots":  "freeSpots",
		"MaxPlayers": "maxPlayers",
		"BookingURL": "bookingUrl",
		"Available":  "available",
	}
	for field, tag := range want {
		f, ok := typ.FieldByName(field)
		if !ok {
			t.Fatalf("missing field %s", field)
		}
		if got := f.Tag.Get("json"); got != tag {
			t.Fatalf("field %s: expected tag %q, got %q", field, tag, got)
		}
	}
}

func deref(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
