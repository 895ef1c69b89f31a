package wizard

import "errors"

var (
	ErrNoSteps          = errors.New("wizard has no steps")
	ErrDuplicateStep    = errors.New("duplicate step key")
	ErrNotFinalStep     = errors.New("submit is only allowed on the final step")
	ErrStepInvalid      = errors.New("current step is incomplete")
	ErrSubmitInFlight   = errors.New("a submission is already in flight")
	ErrAlreadySubmitted = errors.New("wizard was already submitted")
	ErrBuild            = errors.New("build record")
)
