package cmd

import (
	"github.com/molstat/molstat/fit"
	fittransport "github.com/molstat/molstat/fit/transport"
	"github.com/molstat/molstat/sim"
	"github.com/molstat/molstat/sim/echem"
	"github.com/molstat/molstat/sim/transport"
)

// simCatalog returns every simulator model and observable the CLI knows.
func simCatalog() (*sim.Catalog, error) {
	c := sim.NewCatalog()
	for _, register := range []func(*sim.Catalog) error{
		sim.RegisterIdentity,
		transport.Register,
		echem.Register,
	} {
		if err := register(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// fitCatalog returns every fit model the CLI knows.
func fitCatalog() (*fit.Catalog, error) {
	c := fit.NewCatalog()
	if err := fittransport.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
