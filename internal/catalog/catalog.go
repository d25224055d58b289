// Package catalog loads the course reference list and the fee-group mapping.
// Both are read once at startup and never change while the process runs.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
)

//go:embed data/courses.json
var embedded []byte

// ErrInvalidCatalog is returned when the reference data fails validation.
var ErrInvalidCatalog = errors.New("invalid course catalog")

type document struct {
	Courses   []courses.Course  `json:"courses"`
	FeeGroups courses.FeeGroups `json:"feeGroups"`
}

// Catalog is the read-only course list with its fee groups.
type Catalog struct {
	courses   []courses.Course
	byID      map[string]courses.Course
	feeGroups courses.FeeGroups
}

// Load reads path when set, otherwise the embedded default catalog.
func Load(path string) (*Catalog, error) {
	data := embedded
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = raw
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(doc.Courses, doc.FeeGroups)
}

// New validates courses and builds a catalog.
func New(list []courses.Course, groups courses.FeeGroups) (*Catalog, error) {
	c := &Catalog{
		courses:   make([]courses.Course, 0, len(list)),
		byID:      make(map[string]courses.Course, len(list)),
		feeGroups: groups,
	}
	for i, course := range list {
		course.ID = strings.TrimSpace(course.ID)
		if course.ID == "" {
			return nil, fmt.Errorf("%w: course %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.byID[course.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate course id %q", ErrInvalidCatalog, course.ID)
		}
		provider, ok := courses.ParseProvider(string(course.Provider))
		if !ok {
			return nil, fmt.Errorf("%w: course %q has unknown provider %q", ErrInvalidCatalog, course.ID, course.Provider)
		}
		course.Provider = provider
		c.courses = append(c.courses, course)
		c.byID[course.ID] = course
	}
	if c.feeGroups == nil {
		c.feeGroups = courses.FeeGroups{}
	}
	return c, nil
}

// Courses returns a copy of the course list in catalog order.
func (c *Catalog) Courses() []courses.Course {
	out := make([]courses.Course, len(c.courses))
	copy(out, c.courses)
	return out
}

// Course returns the course with the given id.
func (c *Catalog) Course(id string) (courses.Course, bool) {
	course, ok := c.byID[id]
	return course, ok
}

// Select returns the courses for ids in catalog order, plus any ids that are unknown.
// An empty ids list selects every course.
func (c *Catalog) Select(ids []string) ([]courses.Course, []string) {
	if len(ids) == 0 {
		return c.Courses(), nil
	}
	want := make(map[string]bool, len(ids))
	var unknown []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := c.byID[id]; !ok {
			unknown = append(unknown, id)
			continue
		}
		want[id] = true
	}
	out := make([]courses.Course, 0, len(want))
	for _, course := range c.courses {
		if want[course.ID] {
			out = append(out, course)
		}
	}
	sort.Strings(unknown)
	return out, unknown
}

// FeeGroups returns the fee-group mapping.
func (c *Catalog) FeeGroups() courses.FeeGroups {
	return c.feeGroups
}
