// Package trig provides the sine, cosine and atan2 used by the circular
// mean of the interpolation engine.
//
// Two backends implement [Backend]:
//
//   - [Platform]: the host implementation from package math
//   - [Poly]: self-contained polynomial approximations with no math import
//
// The package-level [Sin], [Cos] and [Atan2] dispatch statically to one of
// them, chosen at build time:
//
//	go build ./...                 # Platform
//	go build -tags polytrig ./...  # Poly
//
// Poly's Atan2 stays within 5e-5 rad of the exact value; its Sin and Cos
// are accurate to about 1e-11 over the angles the engine passes in.
package trig
