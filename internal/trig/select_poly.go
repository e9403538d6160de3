//go:build polytrig

package trig

var active Poly
