// Package modules wraps the action, operator and solver payloads as
// configurable modules and registers them under their configuration names.
//
// Three registries are populated per reader type:
//
//	action.Action     Wilson, Symanzik, Iwasaki, DBW2, RBC, PlaqPlusRect,
//	                  TwoFlavours, TwoFlavoursEvenOdd
//	fermion.Operator  Laplace
//	solver.Solver     CG
//
// The pseudofermion modules are composites: their "Operator" and "Solver"
// sections name modules from the operator and solver registries. Operator
// modules need the lattice grid, handed over with module.Acquire before the
// first Product call.
package modules
