package engine

import "fmt"

// InitStep names a stage of Core construction.
type InitStep string

const (
	StepValidate     InitStep = "validate"
	StepSubsystems   InitStep = "subsystems"
	StepWindow       InitStep = "window"
	StepImageDecoder InitStep = "image decoder"
	StepRenderer     InitStep = "renderer"
	StepLogicalSize  InitStep = "logical size"
)

// InitError reports which construction step failed and why.
type InitError struct {
	Step InitStep
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("engine: %s: %v", e.Step, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
