package validator

// Validator collects human-readable messages for every failed check on an
// input. Handlers embed one in their input struct and return the collected
// messages as a 422 response body.
type Validator struct {
	Errors []string `json:",omitempty"`
}

func (v Validator) HasErrors() bool {
	return len(v.Errors) != 0
}

func (v *Validator) AddError(message string) {
	if v.Errors == nil {
		v.Errors = []string{}
	}

	v.Errors = append(v.Errors, message)
}

// Check records message when ok is false. Checks keep running after a
// failure so the response lists every problem with the submission at once.
func (v *Validator) Check(ok bool, message string) {
	if !ok {
		v.AddError(message)
	}
}
