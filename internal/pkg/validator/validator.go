package validator

// RuleSet maps a field name to its ordered list of rule specifications.
// Supported rules: "required", "url", "email", "min:N", "max:N", "sometimes".
type RuleSet map[string][]string

// Validation holds the outcome of validating one input record against a rule
// set. It is fully evaluated by Validate and immutable afterwards: a field
// appears in the valid-data map iff it accumulated zero errors.
type Validation struct {
	data   map[string]any
	errors map[string][]string
	valid  map[string]any
}

// Validate evaluates every rule of the set against the input record, in the
// declared per-field rule order, and returns the finished result.
func Validate(data map[string]any, rules RuleSet) *Validation {
	v := &Validation{
		data:   data,
		errors: make(map[string][]string),
		valid:  make(map[string]any),
	}

	for field, fieldRules := range rules {
		v.validateField(field, fieldRules)
	}

	return v
}

// Passes reports whether no field accumulated any error.
func (v *Validation) Passes() bool {
	return len(v.errors) == 0
}

// Errors returns the field-to-messages map. Messages keep the order in which
// the rules raised them.
func (v *Validation) Errors() map[string][]string {
	return v.errors
}

// Validated returns the fields that passed all their rules, verbatim. Fields
// absent from the input validate through without appearing here.
func (v *Validation) Validated() map[string]any {
	return v.valid
}

func (v *Validation) validateField(field string, fieldRules []string) {
	value, present := v.data[field]

	// "sometimes" gates the whole field: when the field is absent, every
	// other rule for it is skipped for this pass.
	for _, rule := range fieldRules {
		if rule == ruleSometimes && !present {
			return
		}
	}

	for _, rule := range fieldRules {
		if rule == ruleSometimes {
			continue
		}
		v.applyRule(field, value, rule)
	}

	if len(v.errors[field]) == 0 && present {
		v.valid[field] = value
	}
}

func (v *Validation) addError(field, message string) {
	v.errors[field] = append(v.errors[field], message)
}
