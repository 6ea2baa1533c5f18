package momentum

import "math"

// CarrierGasProperties externalizes the constants Sutherland's law and the
// Ergun momentum closure need. Callers supply the carrier's own values
// (helium's are the common default, provided as HeliumProperties below, but
// nothing in the momentum package assumes helium).
type CarrierGasProperties struct {
	Mu0       float64 // reference viscosity [Pa*s]
	TRef      float64 // reference temperature for Mu0 [K]
	S         float64 // Sutherland constant [K]
	MolarMass float64 // [kg/mol]
	ParticleD float64 // particle diameter d_p [m]
}

// HeliumProperties are the commonly tabulated Sutherland constants for
// helium, offered as a convenient default — not baked into the solver.
var HeliumProperties = CarrierGasProperties{
	Mu0:       1.99e-5,
	TRef:      273.0,
	S:         79.4,
	MolarMass: 4.0026e-3,
}

// Viscosity evaluates Sutherland's law: mu = mu0*(T/Tref)^1.5*(Tref+S)/(T+S).
func (c CarrierGasProperties) Viscosity(t float64) float64 {
	return c.Mu0 * math.Pow(t/c.TRef, 1.5) * (c.TRef + c.S) / (t + c.S)
}
