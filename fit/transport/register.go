package transport

import "github.com/molstat/molstat/fit"

// Register adds the conductance line shapes to c.
func Register(c *fit.Catalog) error {
	models := []struct {
		name string
		ctor fit.Constructor
	}{
		{"SymmetricResonant", func() fit.Model { return SymmetricResonant{} }},
		{"SymmetricNonresonant", func() fit.Model { return SymmetricNonresonant{} }},
		{"AsymmetricResonant", func() fit.Model { return AsymmetricResonant{} }},
		{"Interference", func() fit.Model { return Interference{} }},
	}
	for _, m := range models {
		if err := c.Register(m.name, m.ctor); err != nil {
			return err
		}
	}
	return nil
}
