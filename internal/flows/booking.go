package flows

import (
	"fmt"
	"strings"
	"time"

	"github.com/jask/haven/internal/wizard"
)

const (
	FieldTherapist = "therapist"
	FieldDate      = "date"
	FieldTime      = "time"
	FieldModality  = "modality"
	FieldDuration  = "duration"
	FieldNotes     = "notes"
)

// Modalities offered by the booking wizard.
var Modalities = []string{"video", "phone", "in_person"}

// Booking is the record produced by the session booking wizard.
type Booking struct {
	Therapist string
	StartsAt  time.Time
	Duration  time.Duration
	Modality  string
	Notes     string
}

// Clock returns the current time; injected so the "in the future" check is testable.
type Clock func() time.Time

func parseStart(f wizard.Fields, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" 15:04", f.Get(FieldDate)+" "+f.Get(FieldTime), loc)
}

func startsInFuture(now Clock, loc *time.Location) wizard.Validator {
	return func(f wizard.Fields) bool {
		start, err := parseStart(f, loc)
		if err != nil {
			return false
		}
		return start.After(now())
	}
}

func BookingSteps(now Clock, loc *time.Location) []wizard.Step {
	return []wizard.Step{
		{
			Key:   "therapist",
			Title: "Who are you seeing?",
			Fields: []wizard.Field{
				{Name: FieldTherapist, Label: "Therapist", Placeholder: "Dr. Rivera"},
			},
			Validate: wizard.Required(FieldTherapist),
			Hint:     "Enter your therapist's name.",
		},
		{
			Key:   "schedule",
			Title: "When?",
			Fields: []wizard.Field{
				{Name: FieldDate, Label: "Date (YYYY-MM-DD)"},
				{Name: FieldTime, Label: "Time (HH:MM)", Placeholder: "17:30"},
			},
			Validate: wizard.All(
				wizard.Required(FieldDate, FieldTime),
				wizard.Matches(FieldTime, clockPattern),
				startsInFuture(now, loc),
			),
			Hint: "Enter a future date and time, like 2026-05-04 and 17:30.",
		},
		{
			Key:   "format",
			Title: "Format",
			Fields: []wizard.Field{
				{Name: FieldModality, Label: "Modality", Options: Modalities},
				{Name: FieldDuration, Label: "Length in minutes (30-120)"},
				{Name: FieldNotes, Label: "Anything to bring up? (optional)"},
			},
			Validate: wizard.All(
				wizard.OneOf(FieldModality, Modalities...),
				wizard.IntRange(FieldDuration, 30, 120),
			),
			Hint: "Choose video, phone or in_person and a length between 30 and 120 minutes.",
		},
		{
			Key:         "review",
			Title:       "Review",
			Description: "Press enter to book this session.",
			Validate:    startsInFuture(now, loc),
			Hint:        "That time has passed. Go back and pick a new one.",
		},
	}
}

func BuildBooking(loc *time.Location) wizard.BuildFunc[Booking] {
	return func(f wizard.Fields) (Booking, error) {
		start, err := parseStart(f, loc)
		if err != nil {
			return Booking{}, fmt.Errorf("session start: %w", err)
		}
		minutes, err := f.Int(FieldDuration)
		if err != nil {
			return Booking{}, err
		}
		return Booking{
			Therapist: f.Get(FieldTherapist),
			StartsAt:  start,
			Duration:  time.Duration(minutes) * time.Minute,
			Modality:  strings.ToLower(f.Get(FieldModality)),
			Notes:     f.Get(FieldNotes),
		}, nil
	}
}

// NewBooking builds the session booking wizard. Times are read in loc.
func NewBooking(now Clock, loc *time.Location, p wizard.Persister[Booking], opts ...wizard.Option) (*wizard.Wizard[Booking], error) {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	opts = append([]wizard.Option{wizard.WithInitial(wizard.Fields{
		FieldModality: "video",
		FieldDuration: "50",
	})}, opts...)
	return wizard.New("booking", BookingSteps(now, loc), BuildBooking(loc), p, opts...)
}
