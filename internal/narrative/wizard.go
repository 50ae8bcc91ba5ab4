package narrative

import (
	"nexus-assist/internal/generation"
)

// FieldSource supplies the current form values.
type FieldSource interface {
	Fields() map[string]string
}

// Wizard tracks which step of the form is shown. Moving forward requires
// every required field of the current step.
type Wizard struct {
	src  FieldSource
	step int
}

func NewWizard(src FieldSource) *Wizard {
	return &Wizard{src: src, step: 1}
}

func (w *Wizard) Step() int {
	return w.step
}

// Last reports whether the current step is the one that generates.
func (w *Wizard) Last() bool {
	return w.step == Steps
}

// Valid reports whether the current step can be left.
func (w *Wizard) Valid() bool {
	return w.Check() == nil
}

// Check returns a *generation.ValidationError naming the blank required
// fields of the current step.
func (w *Wizard) Check() error {
	return generation.Validate(StepRequired(w.step), w.src.Fields())
}

// Next advances one step when the current step is complete. On the last
// step it only validates.
func (w *Wizard) Next() error {
	if err := w.Check(); err != nil {
		return err
	}
	if w.step < Steps {
		w.step++
	}
	return nil
}

func (w *Wizard) Back() {
	if w.step > 1 {
		w.step--
	}
}
