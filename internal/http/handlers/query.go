package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/http/requestutil"
	"github.com/preston-bernstein/teetime-service/internal/timeutil"
)

const (
	maxPlayers   = 8
	maxCourseIDs = 64
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// teeTimeQuery is the validated form of GET /api/teetimes.
type teeTimeQuery struct {
	Date     string   `query:"date" validate:"required,datetime=2006-01-02"`
	Earliest string   `query:"earliest" validate:"omitempty,clock"`
	Latest   string   `query:"latest" validate:"omitempty,clock"`
	Holes    int      `query:"holes" validate:"omitempty,oneof=9 18"`
	Players  int      `query:"players" validate:"min=1,max=8"`
	Courses  []string `query:"courses" validate:"max=64,dive,max=64"`
}

func (q teeTimeQuery) criteria() slots.SearchCriteria {
	return slots.SearchCriteria{
		Date:      q.Date,
		Earliest:  q.Earliest,
		Latest:    q.Latest,
		Holes:     q.Holes,
		PartySize: q.Players,
	}
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			return f.Tag.Get("query")
		})
		_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			return timeutil.ValidClock(fl.Field().String())
		})
	})
	return validate
}

// parseTeeTimeQuery reads and validates the search parameters. The returned error
// message is safe to show to the caller.
func parseTeeTimeQuery(values url.Values) (teeTimeQuery, error) {
	q := teeTimeQuery{
		Date:     strings.TrimSpace(values.Get("date")),
		Earliest: strings.TrimSpace(values.Get("earliest")),
		Latest:   strings.TrimSpace(values.Get("latest")),
		Players:  1,
		Courses:  requestutil.SplitList(values.Get("courses")),
	}

	if raw := strings.TrimSpace(values.Get("holes")); raw != "" {
		holes, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New(fieldMessage("holes", "oneof"))
		}
		q.Holes = holes
	}
	if raw := strings.TrimSpace(values.Get("players")); raw != "" {
		players, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New(fieldMessage("players", "min"))
		}
		q.Players = players
	}

	if err := validatorInstance().Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return q, errors.New(fieldMessage(verrs[0].Field(), verrs[0].Tag()))
		}
		return q, err
	}
	if q.Earliest != "" && q.Latest != "" && q.Earliest > q.Latest {
		return q, errors.New("earliest must not be after latest")
	}
	return q, nil
}

func fieldMessage(field, tag string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	switch field {
	case "date":
		if tag == "required" {
			return "date is required (YYYY-MM-DD)"
		}
		return "invalid date format (expected YYYY-MM-DD)"
	case "earliest", "latest":
		return field + " must be HH:MM (24-hour)"
	case "holes":
		return "holes must be 9 or 18"
	case "players":
		return fmt.Sprintf("players must be between 1 and %d", maxPlayers)
	case "courses":
		return fmt.Sprintf("courses must list at most %d ids of at most 64 characters", maxCourseIDs)
	default:
		return "invalid " + field
	}
}
