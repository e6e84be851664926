package scenario

import (
	"github.com/lifearc-ai/engine/pkg/profile"
)

// Apply runs the scenario's adjustments against a deep copy of the profile
// in declared order and returns the derived profile. The input profile is
// never mutated. Order matters: multiplicative and override adjustments on
// the same attribute compose left to right, last applicable override wins.
func Apply(s Scenario, p *profile.Profile) *profile.Profile {
	derived := p.Clone()
	for i := range s.Adjustments {
		s.Adjustments[i].apply(derived)
	}
	return derived
}

// ApplyNamed resolves name in the catalog and applies it.
func (c *Catalog) ApplyNamed(name string, p *profile.Profile) (*profile.Profile, error) {
	s, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	return Apply(s, p), nil
}
