package dunbrack_test

import (
	"bytes"
	"fmt"
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dunbrack"
	"github.com/san-kum/dunbrack/internal/grid"
	"github.com/san-kum/dunbrack/internal/testlib"
	"github.com/san-kum/dunbrack/internal/testutil"
)

var _ = Describe("Kind", func() {
	It("covers the 22 library residues", func() {
		kinds := dunbrack.Kinds()
		Expect(kinds).To(HaveLen(22))
		Expect(dunbrack.NumKinds).To(Equal(22))
		total := 0
		for _, k := range kinds {
			Expect(k.Valid()).To(BeTrue())
			Expect(k.NChi()).To(BeNumerically(">=", 1))
			Expect(k.NChi()).To(BeNumerically("<=", dunbrack.MaxChi))
			Expect(k.NRotamers()).To(BeNumerically("<=", dunbrack.MaxRotamers))
			total += k.NRotamers()
		}
		Expect(total).To(Equal(541))
	})

	DescribeTable("dimensions",
		func(k dunbrack.Kind, tag string, nChi, nRot int) {
			Expect(k.String()).To(Equal(tag))
			Expect(k.NChi()).To(Equal(nChi))
			Expect(k.NRotamers()).To(Equal(nRot))
		},
		Entry(nil, dunbrack.Arg, "ARG", 4, 75),
		Entry(nil, dunbrack.Cpr, "CPR", 3, 2),
		Entry(nil, dunbrack.Gln, "GLN", 3, 108),
		Entry(nil, dunbrack.Lys, "LYS", 4, 73),
		Entry(nil, dunbrack.Tpr, "TPR", 3, 2),
		Entry(nil, dunbrack.Val, "VAL", 1, 3),
	)

	It("parses tags in any case", func() {
		for _, k := range dunbrack.Kinds() {
			got, err := dunbrack.ParseKind(" " + k.String() + " ")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(k))
		}
		got, err := dunbrack.ParseKind("gln")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(dunbrack.Gln))
	})

	It("rejects unknown tags", func() {
		_, err := dunbrack.ParseKind("ALA")
		Expect(err).To(MatchError(dunbrack.ErrUnknownKind))
		Expect(dunbrack.Kind(200).Valid()).To(BeFalse())
		Expect(dunbrack.Kind(200).String()).To(Equal("Kind(200)"))
	})

	It("round-trips through text", func() {
		b, err := dunbrack.Tyr.MarshalText()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal("TYR"))
		var k dunbrack.Kind
		Expect(k.UnmarshalText([]byte("tyr"))).To(Succeed())
		Expect(k).To(Equal(dunbrack.Tyr))
		Expect(k.UnmarshalText([]byte("xyz"))).To(MatchError(dunbrack.ErrUnknownKind))
	})
})

var _ = Describe("process-wide library", func() {
	It("is installed once", func() {
		Expect(dunbrack.Default()).To(BeIdenticalTo(testlib.Library()))
		Expect(dunbrack.Use(testlib.Library())).To(MatchError(dunbrack.ErrAlreadyLoaded))
		Expect(dunbrack.Load("/nonexistent.csv", dunbrack.Options{})).To(MatchError(dunbrack.ErrAlreadyLoaded))
	})

	It("answers the same as the library", func() {
		lib := testlib.Library()
		for _, k := range dunbrack.Kinds() {
			Expect(k.Rotamers(-63.2, 141.9)).To(Equal(lib.Rotamers(k, -63.2, 141.9)))
			Expect(dunbrack.Query(k, 12, -7)).To(Equal(lib.Rotamers(k, 12, -7)))
		}
	})
})

var _ = Describe("queries", func() {
	var lib *dunbrack.Library
	BeforeEach(func() { lib = testlib.Library() })

	It("returns complete well-formed sets over the whole domain", func() {
		for _, k := range dunbrack.Kinds() {
			for phi := -200.0; phi <= 200; phi += 23 {
				for psi := -200.0; psi <= 200; psi += 29 {
					set := lib.Rotamers(k, phi, psi)
					Expect(set.Len()).To(Equal(k.NRotamers()))
					Expect(set.ProbSum()).To(BeNumerically("~", 1, 1e-3))
					for _, r := range set.All() {
						Expect(int(r.NChi)).To(Equal(k.NChi()))
						for c := 0; c < k.NChi(); c++ {
							Expect(r.Bins[c]).To(BeNumerically(">=", 1))
							Expect(r.ChiSigma[c]).To(BeNumerically(">", 0))
							Expect(math.Abs(float64(r.ChiMean[c]))).To(BeNumerically("<=", 180))
						}
					}
				}
			}
		}
	})

	It("keeps bin order identical everywhere", func() {
		ref := lib.Rotamers(dunbrack.Gln, 0, 0)
		set := lib.Rotamers(dunbrack.Gln, -151.3, 77.7)
		for k := range ref.Len() {
			Expect(set.At(k).Bins).To(Equal(ref.At(k).Bins))
		}
	})

	It("reproduces grid cells", func() {
		for _, k := range []dunbrack.Kind{dunbrack.Val, dunbrack.Arg, dunbrack.Gln} {
			for _, ij := range [][2]int{{0, 0}, {7, 30}, {18, 18}, {36, 36}} {
				cell, err := lib.Cell(k, ij[0], ij[1])
				Expect(err).NotTo(HaveOccurred())
				set := lib.Rotamers(k, grid.Angle(ij[0]), grid.Angle(ij[1]))
				for n, want := range cell.All() {
					got := set.At(n)
					Expect(got.Bins).To(Equal(want.Bins))
					Expect(got.Prob).To(BeNumerically("~", want.Prob, 1e-5))
					for c := 0; c < k.NChi(); c++ {
						Expect(testutil.AngleDiff(float64(got.ChiMean[c]), float64(want.ChiMean[c]))).To(BeNumerically("<", 0.05))
						Expect(got.ChiSigma[c]).To(BeNumerically("~", want.ChiSigma[c], 1e-4))
					}
				}
			}
		}
		_, err := lib.Cell(dunbrack.Val, 37, 0)
		Expect(err).To(HaveOccurred())
	})

	It("clamps out-of-range angles", func() {
		Expect(lib.Rotamers(dunbrack.Leu, -500, 999)).To(Equal(lib.Rotamers(dunbrack.Leu, -180, 180)))
		Expect(lib.Rotamers(dunbrack.Leu, math.NaN(), 0)).To(Equal(lib.Rotamers(dunbrack.Leu, -180, 0)))
	})

	It("reuses caller buffers", func() {
		var buf dunbrack.Rotamers
		lib.RotamersInto(&buf, dunbrack.Gln, 40, 40)
		lib.RotamersInto(&buf, dunbrack.Val, -60, -40)
		Expect(buf).To(Equal(lib.Rotamers(dunbrack.Val, -60, -40)))
	})

	It("is deterministic under concurrent use", func() {
		const workers = 8
		want := make([]dunbrack.Rotamers, 0, 64)
		for i := range 64 {
			want = append(want, lib.Rotamers(dunbrack.Arg, float64(i*7-180), float64(180-i*5)))
		}
		var wg sync.WaitGroup
		diffs := make([]int, workers)
		for w := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range want {
					if lib.Rotamers(dunbrack.Arg, float64(i*7-180), float64(180-i*5)) != want[i] {
						diffs[w]++
					}
				}
			}()
		}
		wg.Wait()
		Expect(diffs).To(HaveEach(0))
	})

	It("round-trips through the compiled form", func() {
		var buf bytes.Buffer
		Expect(lib.WriteBinary(&buf)).To(Succeed())
		Expect(buf.Bytes()).To(Equal(testlib.Binary()))

		again, err := dunbrack.Read(&buf, dunbrack.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(again.Source()).To(BeEmpty())
		for _, k := range dunbrack.Kinds() {
			Expect(again.Rotamers(k, 33.3, -120.1)).To(Equal(lib.Rotamers(k, 33.3, -120.1)))
		}
	})

	It("reports malformed input", func() {
		bad := bytes.Clone(testlib.Binary())
		bad[100] ^= 1
		_, err := dunbrack.Read(bytes.NewReader(bad), dunbrack.Options{})
		Expect(err).To(MatchError(dunbrack.ErrMalformed))
		var le *dunbrack.LoadError
		Expect(err).To(BeAssignableToTypeOf(le))
	})
})

// sourceCSV writes the synthetic VAL table as CSV rows.
func sourceCSV(mutate func(line int, r *dunbrack.Rotamer)) []byte {
	var buf bytes.Buffer
	buf.WriteString("res,phi,psi,r1,r2,r3,r4,prob,chi1,chi2,chi3,chi4,sig1,sig2,sig3,sig4\n")
	k := dunbrack.Val
	cells := testutil.Cells(k.NChi(), k.NRotamers())
	line := 2
	for i := 0; i < grid.Count; i++ {
		for j := 0; j < grid.Count; j++ {
			for n := 0; n < k.NRotamers(); n++ {
				r := cells[(i*grid.Count+j)*k.NRotamers()+n]
				if mutate != nil {
					mutate(line, &r)
				}
				fmt.Fprintf(&buf, "VAL,%g,%g,%d,%d,%d,%d,%g,%g,%g,%g,%g,%g,%g,%g,%g\n",
					grid.Angle(i), grid.Angle(j), r.Bins[0], r.Bins[1], r.Bins[2], r.Bins[3], r.Prob,
					r.ChiMean[0], r.ChiMean[1], r.ChiMean[2], r.ChiMean[3],
					r.ChiSigma[0], r.ChiSigma[1], r.ChiSigma[2], r.ChiSigma[3])
				line++
			}
		}
	}
	return buf.Bytes()
}

var _ = Describe("Verify", func() {
	It("accepts the source of the library", func() {
		rep, err := testlib.Library().Verify(bytes.NewReader(sourceCSV(nil)), dunbrack.FormatAuto)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Rows).To(Equal(grid.Count * grid.Count * dunbrack.Val.NRotamers()))
		Expect(rep.OK()).To(BeTrue(), "%v", rep.Mismatches)
	})

	It("reports rows that differ", func() {
		src := sourceCSV(func(line int, r *dunbrack.Rotamer) {
			if line == 100 {
				r.Prob += 0.01
			}
			if line == 200 {
				r.ChiSigma[0] += 1
			}
		})
		rep, err := testlib.Library().Verify(bytes.NewReader(src), dunbrack.FormatCSV)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Failed).To(Equal(2))
		Expect(rep.Mismatches).To(HaveLen(2))
		Expect(rep.Mismatches[0].Line).To(Equal(100))
		Expect(rep.Mismatches[0].Reason).To(HavePrefix("p="))
		Expect(rep.Mismatches[1].Reason).To(HavePrefix("σ1="))
	})

	It("rejects unknown residues", func() {
		_, err := testlib.Library().Verify(bytes.NewReader([]byte("XYZ,0,0,1,0,0,0,1,60,0,0,0,10,0,0,0\n")), dunbrack.FormatCSV)
		Expect(err).To(MatchError(dunbrack.ErrMalformed))
	})
})
