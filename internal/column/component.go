package column

// Component describes one gas-phase species, immutable for the duration of a
// run.
type Component struct {
	Name string

	// Yi0 is the inlet mole fraction.
	Yi0 float64

	// Kl is the LDF mass-transfer coefficient [1/s]. Zero for the carrier.
	Kl float64

	// D is the optional axial dispersion coefficient [m^2/s], used by the
	// Approach-2 (Ergun-coupled) mole-fraction stencil.
	D float64

	// Carrier marks the non-adsorbing carrier gas. A carrier component has
	// zero equilibrium uptake at every node regardless of Kl.
	Carrier bool

	// Isotherm is opaque to the PDE core; it is consumed only by the
	// equilibrium.Oracle implementation the driver is constructed with.
	Isotherm IsothermParams
}

// IsothermParams is an opaque parameter bundle for a single component's
// isotherm model. The PDE core never inspects its fields; only the
// equilibrium.Oracle implementation does.
type IsothermParams struct {
	Model string // e.g. "Langmuir"
	// Values holds the model's ordered coefficients, e.g. for Langmuir:
	// Values[0] = qsat [mol/kg], Values[1] = b [Pa^-1].
	Values []float64
}
