package errs

import "fmt"

// InvalidProfileError marks a structurally malformed profile. Absent optional
// fields are not errors; only values the model cannot interpret are.
type InvalidProfileError struct {
	Field  string
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid profile: field %q: %s", e.Field, e.Reason)
}

// InvalidScenarioError marks an unknown scenario name or a malformed
// adjustment inside a scenario definition.
type InvalidScenarioError struct {
	Scenario string
	Reason   string
}

func (e *InvalidScenarioError) Error() string {
	return fmt.Sprintf("invalid scenario %q: %s", e.Scenario, e.Reason)
}

// ConfigurationError marks engine configuration data that fails its
// invariants, such as a domain weight vector that does not sum to 1 or an
// empty or unsorted actuarial table.
type ConfigurationError struct {
	Component string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Reason)
}
