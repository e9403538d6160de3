package dunbrack

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned by ParseKind.
var ErrUnknownKind = errors.New("dunbrack: unknown residue kind")

// Kind is a residue kind of the library. The set is closed.
type Kind uint8

const (
	Arg Kind = iota
	Asn
	Asp
	Cpr // cis-proline
	Cyd // disulfide-bonded cysteine
	Cyh // free cysteine
	Cys
	Gln
	Glu
	His
	Ile
	Leu
	Lys
	Met
	Phe
	Pro
	Ser
	Thr
	Tpr // trans-proline
	Trp
	Tyr
	Val
)

// NumKinds is the number of residue kinds.
const NumKinds = int(Val) + 1

type kindInfo struct {
	tag  string
	name string
	nChi int
	nRot int
}

var kindInfos = [NumKinds]kindInfo{
	Arg: {"ARG", "arginine", 4, 75},
	Asn: {"ASN", "asparagine", 2, 36},
	Asp: {"ASP", "aspartate", 2, 18},
	Cpr: {"CPR", "cis-proline", 3, 2},
	Cyd: {"CYD", "disulfide cysteine", 1, 3},
	Cyh: {"CYH", "free cysteine", 1, 3},
	Cys: {"CYS", "cysteine", 1, 3},
	Gln: {"GLN", "glutamine", 3, 108},
	Glu: {"GLU", "glutamate", 3, 54},
	His: {"HIS", "histidine", 2, 36},
	Ile: {"ILE", "isoleucine", 2, 9},
	Leu: {"LEU", "leucine", 2, 9},
	Lys: {"LYS", "lysine", 4, 73},
	Met: {"MET", "methionine", 3, 27},
	Phe: {"PHE", "phenylalanine", 2, 18},
	Pro: {"PRO", "proline", 3, 2},
	Ser: {"SER", "serine", 1, 3},
	Thr: {"THR", "threonine", 1, 3},
	Tpr: {"TPR", "trans-proline", 3, 2},
	Trp: {"TRP", "tryptophan", 2, 36},
	Tyr: {"TYR", "tyrosine", 2, 18},
	Val: {"VAL", "valine", 1, 3},
}

// Valid reports whether k is one of the library kinds.
func (k Kind) Valid() bool {
	return int(k) < NumKinds
}

// String returns the three-letter residue tag, e.g. "VAL".
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindInfos[k].tag
}

// Name returns the residue name, e.g. "valine".
func (k Kind) Name() string {
	if !k.Valid() {
		return k.String()
	}
	return kindInfos[k].name
}

// NChi returns the number of χ angles.
func (k Kind) NChi() int {
	return kindInfos[k].nChi
}

// NRotamers returns the number of rotamers of every query result.
func (k Kind) NRotamers() int {
	return kindInfos[k].nRot
}

// Kinds returns every kind in tag order.
func Kinds() []Kind {
	out := make([]Kind, NumKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind looks up a kind by its tag, ignoring case.
func ParseKind(s string) (Kind, error) {
	tag := strings.ToUpper(strings.TrimSpace(s))
	for k, info := range kindInfos {
		if info.tag == tag {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
