package flows

import (
	"github.com/jask/haven/internal/wizard"
)

const (
	FieldMoodScore  = "score"
	FieldMoodEnergy = "energy"
	FieldMoodNote   = "note"
	FieldMoodTags   = "tags"
)

// CheckIn is the record produced by the mood check-in wizard.
type CheckIn struct {
	Score  int
	Energy *int
	Note   string
	Tags   []string
}

func CheckInSteps() []wizard.Step {
	return []wizard.Step{
		{
			Key:         "mood",
			Title:       "How are you feeling?",
			Description: "1 is the lowest, 10 the best you've felt.",
			Fields: []wizard.Field{
				{Name: FieldMoodScore, Label: "Mood (1-10)", Placeholder: "6"},
			},
			Validate: wizard.IntRange(FieldMoodScore, 1, 10),
			Hint:     "Enter a number from 1 to 10.",
		},
		{
			Key:   "context",
			Title: "A little context",
			Fields: []wizard.Field{
				{Name: FieldMoodEnergy, Label: "Energy (1-5, optional)"},
				{Name: FieldMoodTags, Label: "Tags (optional)", Placeholder: "sleep, work"},
				{Name: FieldMoodNote, Label: "Note (optional)"},
			},
			Validate: wizard.Optional(FieldMoodEnergy, wizard.IntRange(FieldMoodEnergy, 1, 5)),
			Hint:     "Energy must be between 1 and 5.",
		},
	}
}

func BuildCheckIn(f wizard.Fields) (CheckIn, error) {
	score, err := f.Int(FieldMoodScore)
	if err != nil {
		return CheckIn{}, err
	}
	c := CheckIn{Score: score, Note: f.Get(FieldMoodNote), Tags: f.List(FieldMoodTags)}
	if f.Has(FieldMoodEnergy) {
		e, err := f.Int(FieldMoodEnergy)
		if err != nil {
			return CheckIn{}, err
		}
		c.Energy = &e
	}
	return c, nil
}

// NewCheckIn builds the mood check-in wizard.
func NewCheckIn(p wizard.Persister[CheckIn], opts ...wizard.Option) (*wizard.Wizard[CheckIn], error) {
	return wizard.New("checkin", CheckInSteps(), BuildCheckIn, p, opts...)
}
