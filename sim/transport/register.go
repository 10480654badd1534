package transport

import "github.com/molstat/molstat/sim"

// Register adds the transport models and observables to c.
func Register(c *sim.Catalog) error {
	models := []struct {
		name string
		ctor sim.ModelConstructor
	}{
		{"TransportJunction", func() sim.Model { return NewJunction() }},
		{"SymmetricOneSiteChannel", func() sim.Model { return SymmetricOneSite{} }},
		{"AsymmetricOneSiteChannel", func() sim.Model { return AsymmetricOneSite{} }},
		{"SymmetricTwoSiteChannel", func() sim.Model { return SymmetricTwoSite{} }},
		{"AsymmetricTwoSiteChannel", func() sim.Model { return AsymmetricTwoSite{} }},
		{"RectangularBarrierChannel", func() sim.Model { return RectangularBarrier{} }},
		{"InterferenceChannel", func() sim.Model { return Interference{} }},
	}
	for _, m := range models {
		if err := c.RegisterModel(m.name, m.ctor); err != nil {
			return err
		}
	}
	for _, o := range Observables {
		if err := c.RegisterObservable(o); err != nil {
			return err
		}
	}
	return nil
}
