package flows

import (
	"fmt"
	"strings"
	"time"

	"github.com/jask/haven/internal/wizard"
)

const (
	FieldGoalTitle       = "title"
	FieldGoalDescription = "description"
	FieldGoalCategory    = "category"
	FieldGoalTargetDate  = "target_date"
	FieldGoalTargetCount = "target_count"
)

// DateLayout is the date format typed into wizards.
const DateLayout = "2006-01-02"

// GoalCategories are the categories offered by the goal wizard.
var GoalCategories = []string{"general", "health", "mindfulness", "relationships", "sleep", "work"}

// GoalDraft is the record produced by the goal wizard.
type GoalDraft struct {
	Title       string
	Description string
	Category    string
	TargetDate  *time.Time
	TargetCount int
}

func GoalSteps() []wizard.Step {
	return []wizard.Step{
		{
			Key:         "goal",
			Title:       "New goal",
			Description: "What would you like to work towards?",
			Fields: []wizard.Field{
				{Name: FieldGoalTitle, Label: "Goal", Placeholder: "Walk 20 minutes"},
				{Name: FieldGoalDescription, Label: "Why it matters (optional)"},
			},
			Validate: wizard.Required(FieldGoalTitle),
			Hint:     "Give your goal a short title.",
		},
		{
			Key:   "plan",
			Title: "Plan",
			Fields: []wizard.Field{
				{Name: FieldGoalCategory, Label: "Category", Options: GoalCategories},
				{Name: FieldGoalTargetCount, Label: "How many times (1-365)", Placeholder: "10"},
				{Name: FieldGoalTargetDate, Label: "Target date (YYYY-MM-DD, optional)"},
			},
			Validate: wizard.All(
				wizard.OneOf(FieldGoalCategory, GoalCategories...),
				wizard.IntRange(FieldGoalTargetCount, 1, 365),
				wizard.Optional(FieldGoalTargetDate, wizard.DateLayout(FieldGoalTargetDate, DateLayout)),
			),
			Hint: "Choose a category, a count between 1 and 365 and an optional date like 2026-06-30.",
		},
		{
			Key:         "review",
			Title:       "Review",
			Description: "Press enter to save this goal.",
		},
	}
}

func BuildGoal(f wizard.Fields) (GoalDraft, error) {
	count, err := f.Int(FieldGoalTargetCount)
	if err != nil {
		return GoalDraft{}, err
	}
	g := GoalDraft{
		Title:       f.Get(FieldGoalTitle),
		Description: f.Get(FieldGoalDescription),
		Category:    strings.ToLower(f.Get(FieldGoalCategory)),
		TargetCount: count,
	}
	if f.Has(FieldGoalTargetDate) {
		d, err := time.Parse(DateLayout, f.Get(FieldGoalTargetDate))
		if err != nil {
			return GoalDraft{}, fmt.Errorf("target date: %w", err)
		}
		g.TargetDate = &d
	}
	return g, nil
}

// NewGoal builds the goal wizard.
func NewGoal(p wizard.Persister[GoalDraft], opts ...wizard.Option) (*wizard.Wizard[GoalDraft], error) {
	opts = append([]wizard.Option{wizard.WithInitial(wizard.Fields{
		FieldGoalCategory:    "general",
		FieldGoalTargetCount: "1",
	})}, opts...)
	return wizard.New("goal", GoalSteps(), BuildGoal, p, opts...)
}
