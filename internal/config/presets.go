package config

import (
	"slices"
	"strings"
)

// Backbone is a named (φ, ψ) conformation in degrees.
type Backbone struct {
	Phi         float64 `yaml:"phi"`
	Psi         float64 `yaml:"psi"`
	Description string  `yaml:"description"`
}

// Presets groups common backbone conformations by secondary structure.
var Presets = map[string]map[string]*Backbone{
	"helix": {
		"alpha": {Phi: -57, Psi: -47, Description: "right-handed alpha helix"},
		"3_10":  {Phi: -49, Psi: -26, Description: "3-10 helix"},
		"pi":    {Phi: -57, Psi: -70, Description: "pi helix"},
		"left":  {Phi: 57, Psi: 47, Description: "left-handed helix"},
	},
	"sheet": {
		"beta":         {Phi: -120, Psi: 130, Description: "generic beta strand"},
		"antiparallel": {Phi: -139, Psi: 135, Description: "antiparallel beta sheet"},
		"parallel":     {Phi: -119, Psi: 113, Description: "parallel beta sheet"},
	},
	"coil": {
		"ppii":     {Phi: -75, Psi: 145, Description: "polyproline II helix"},
		"extended": {Phi: -180, Psi: 180, Description: "fully extended chain"},
	},
	"turn": {
		"type1_i1":  {Phi: -60, Psi: -30, Description: "type I turn, residue i+1"},
		"type1_i2":  {Phi: -90, Psi: 0, Description: "type I turn, residue i+2"},
		"type2_i1":  {Phi: -60, Psi: 120, Description: "type II turn, residue i+1"},
		"type2_i2":  {Phi: 80, Psi: 0, Description: "type II turn, residue i+2"},
		"gamma_inv": {Phi: -75, Psi: 65, Description: "inverse gamma turn"},
	},
}

func GetPreset(group, preset string) *Backbone {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	b, ok := groupPresets[preset]
	if !ok {
		return nil
	}
	return b
}

// FindPreset looks a preset up by name alone, or by "group/name".
func FindPreset(name string) (*Backbone, bool) {
	if group, preset, ok := strings.Cut(name, "/"); ok {
		b := GetPreset(group, preset)
		return b, b != nil
	}
	for _, group := range ListGroups() {
		if b, ok := Presets[group][name]; ok {
			return b, true
		}
	}
	return nil, false
}

func ListGroups() []string {
	groups := make([]string, 0, len(Presets))
	for g := range Presets {
		groups = append(groups, g)
	}
	slices.Sort(groups)
	return groups
}

func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
