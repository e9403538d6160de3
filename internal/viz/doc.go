// Package viz renders rotamer queries in the terminal.
//
//   - [RenderRotamers]: a styled table of one query result
//   - [PlotProfiles]: probability of selected rotamers along a φ sweep
//   - [ChiScatter]: Braille scatter of sampled χ angles
//   - [Explorer]: interactive φ/ψ explorer built on Bubble Tea
//
// # Key Bindings
//
//	←/→ h/l   - φ down/up
//	↓/↑ j/k   - ψ down/up
//	+/-       - grow/shrink the angle step
//	Tab       - next residue (Shift+Tab previous)
//	P         - jump to the next backbone preset
//	E or :    - type φ ψ (Enter applies, Esc cancels)
//	T         - cycle color themes
//	Q         - quit
package viz
