package sim

// IdentityModel reports its single parameter unchanged. Simulating it
// reproduces the parameter's distribution, which makes it useful for
// checking distributions and binning end to end.
type IdentityModel struct{}

// IdentityCapable models report a raw parameter value.
type IdentityCapable interface {
	Identity(params []float64) (float64, error)
}

// Identity is the observable backed by IdentityCapable.
var Identity = NewObservable("Identity", IdentityCapable.Identity)

func (IdentityModel) Parameters() []string { return []string{"parameter"} }

func (IdentityModel) Identity(params []float64) (float64, error) { return params[0], nil }

// RegisterIdentity adds IdentityModel and the Identity observable to c.
func RegisterIdentity(c *Catalog) error {
	if err := c.RegisterModel("IdentityModel", func() Model { return IdentityModel{} }); err != nil {
		return err
	}
	return c.RegisterObservable(Identity)
}
