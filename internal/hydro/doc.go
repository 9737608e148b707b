// Package hydro is the built-in frequency-domain engine behind
// [model.Engine].
//
// Each platform is a rigid body made of cylindrical members. The engine
// computes, in lifecycle order:
//
//   - unloaded statics: mass properties, displacement, hydrostatic stiffness
//     and the static equilibrium with a hardening mooring (Newton iteration)
//   - natural frequencies and mode shapes of (M+A)^-1 K
//   - per load case, the response amplitude operators from strip-theory
//     wave excitation, with the viscous drag linearised iteratively
//
// Platforms are not hydrodynamically coupled to each other.
//
// # Example
//
//	desc, _ := design.Load("spar.yaml")
//	eng, _ := hydro.New(desc)
//	m := model.New(eng)
package hydro
