package trig

import "math"

// Platform delegates to package math.
type Platform struct{}

func (Platform) Name() string { return "platform" }

func (Platform) Sin(x float64) float64 { return math.Sin(x) }

func (Platform) Cos(x float64) float64 { return math.Cos(x) }

func (Platform) Atan2(y, x float64) float64 { return math.Atan2(y, x) }
