package flows

import (
	"regexp"
	"strings"

	"github.com/jask/haven/internal/wizard"
)

// Onboarding field names.
const (
	FieldDisplayName      = "display_name"
	FieldPronouns         = "pronouns"
	FieldFocusAreas       = "focus_areas"
	FieldSessionFrequency = "session_frequency"
	FieldReminderTime     = "reminder_time"
	FieldConsent          = "consent"
)

// SessionFrequencies are the cadences a client can pick during onboarding.
var SessionFrequencies = []string{"weekly", "biweekly", "monthly"}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Profile is the record produced by the onboarding wizard.
type Profile struct {
	DisplayName      string
	Pronouns         string
	FocusAreas       []string
	SessionFrequency string
	ReminderTime     string
	Consented        bool
}

// Fields returns p as onboarding answers so an existing profile can be edited.
// Consent is asked again.
func (p Profile) Fields() wizard.Fields {
	freq := p.SessionFrequency
	if freq == "" {
		freq = "weekly"
	}
	return wizard.Fields{
		FieldDisplayName:      p.DisplayName,
		FieldPronouns:         p.Pronouns,
		FieldFocusAreas:       strings.Join(p.FocusAreas, ", "),
		FieldSessionFrequency: freq,
		FieldReminderTime:     p.ReminderTime,
	}
}

// OnboardingSteps returns the personalization steps. focusAreas is the catalogue
// the client chooses from.
func OnboardingSteps(focusAreas []string) []wizard.Step {
	return []wizard.Step{
		{
			Key:         "profile",
			Title:       "About you",
			Description: "How should we address you?",
			Fields: []wizard.Field{
				{Name: FieldDisplayName, Label: "Name", Placeholder: "Alex"},
				{Name: FieldPronouns, Label: "Pronouns (optional)", Placeholder: "they/them"},
			},
			Validate: wizard.Required(FieldDisplayName),
			Hint:     "Please enter the name you'd like us to use.",
		},
		{
			Key:         "focus",
			Title:       "What brings you here",
			Description: "Pick one or more focus areas, separated by commas.",
			Fields: []wizard.Field{
				{Name: FieldFocusAreas, Label: "Focus areas", Options: focusAreas, Multi: true},
			},
			Validate: wizard.EachOneOf(FieldFocusAreas, focusAreas...),
			Hint:     "Choose at least one focus area from the list.",
		},
		{
			Key:         "preferences",
			Title:       "Preferences",
			Description: "How often would you like sessions, and when should we remind you to check in?",
			Fields: []wizard.Field{
				{Name: FieldSessionFrequency, Label: "Session frequency", Options: SessionFrequencies},
				{Name: FieldReminderTime, Label: "Daily reminder (HH:MM, optional)", Placeholder: "20:00"},
			},
			Validate: wizard.All(
				wizard.OneOf(FieldSessionFrequency, SessionFrequencies...),
				wizard.Optional(FieldReminderTime, wizard.Matches(FieldReminderTime, clockPattern)),
			),
			Hint: "Pick weekly, biweekly or monthly; reminder time must look like 20:00.",
		},
		{
			Key:         "review",
			Title:       "Consent",
			Description: "Your entries stay on this device. Type yes to agree and finish.",
			Fields: []wizard.Field{
				{Name: FieldConsent, Label: "I agree", Options: []string{"yes"}},
			},
			Validate: wizard.Equals(FieldConsent, "yes"),
			Hint:     "Type yes to continue.",
		},
	}
}

// BuildProfile maps onboarding fields to a Profile, canonicalising focus areas to
// the catalogue's spelling.
func BuildProfile(focusAreas []string) wizard.BuildFunc[Profile] {
	canonical := make(map[string]string, len(focusAreas))
	for _, f := range focusAreas {
		canonical[strings.ToLower(f)] = f
	}
	return func(f wizard.Fields) (Profile, error) {
		var areas []string
		for _, a := range f.List(FieldFocusAreas) {
			if c, ok := canonical[strings.ToLower(a)]; ok {
				a = c
			}
			areas = append(areas, a)
		}
		return Profile{
			DisplayName:      f.Get(FieldDisplayName),
			Pronouns:         f.Get(FieldPronouns),
			FocusAreas:       areas,
			SessionFrequency: strings.ToLower(f.Get(FieldSessionFrequency)),
			ReminderTime:     f.Get(FieldReminderTime),
			Consented:        strings.EqualFold(f.Get(FieldConsent), "yes"),
		}, nil
	}
}

// NewOnboarding builds the onboarding wizard.
func NewOnboarding(focusAreas []string, p wizard.Persister[Profile], opts ...wizard.Option) (*wizard.Wizard[Profile], error) {
	opts = append([]wizard.Option{wizard.WithInitial(wizard.Fields{FieldSessionFrequency: "weekly"})}, opts...)
	return wizard.New("onboarding", OnboardingSteps(focusAreas), BuildProfile(focusAreas), p, opts...)
}
