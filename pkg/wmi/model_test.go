package wmi_test

import (
	"bytes"
	"errors"
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/operator-framework/wmidnf/pkg/wmi"
)

var _ = Describe("Domain", func() {
	It("should reject invalid domains", func() {
		_, err := wmi.NewDomain(-1, 0, 1)
		Expect(err).To(HaveOccurred())
		_, err = wmi.NewDomain(2, 3, 1)
		Expect(err).To(HaveOccurred())
		_, err = wmi.NewDomain(2, math.NaN(), 1)
		Expect(err).To(HaveOccurred())
	})

	It("should describe the box", func() {
		d, err := wmi.NewDomain(2, 1, 4)
		Expect(err).ToNot(HaveOccurred())
		Expect(d.Width()).To(Equal(3.0))
		Expect(d.Midpoint()).To(Equal(2.5))
		Expect(d.Volume()).To(Equal(9.0))
		Expect(d.Center()).To(Equal([]float64{2.5, 2.5}))
		Expect(d.String()).To(Equal("[1, 4]^2"))

		a, b := d.HRep()
		Expect(a).To(Equal([][]float64{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}))
		Expect(b).To(Equal([]float64{-1, -1, 4, 4}))
	})

	It("should allow an empty dimension", func() {
		d, err := wmi.NewDomain(0, 0, 1)
		Expect(err).ToNot(HaveOccurred())
		Expect(d.Volume()).To(Equal(1.0))
		a, _ := d.HRep()
		Expect(a).To(BeEmpty())
	})
})

var _ = Describe("WeightFunction", func() {
	var w *wmi.WeightFunction

	BeforeEach(func() {
		var err error
		// 3 + 2·x0·x2² over 3 variables
		w, err = wmi.NewWeightFunction(3, []wmi.Monomial{
			{Coefficient: 3, Exponents: []int{0, 0, 0}},
			{Coefficient: 2, Exponents: []int{1, 0, 2}},
		}, []float64{0.1, 0.9})
		Expect(err).ToNot(HaveOccurred())
	})

	It("should evaluate", func() {
		Expect(w.Eval([]float64{2, 7, 3})).To(Equal(39.0))
		Expect(w.Monomials()[1].Degree()).To(Equal(3))
	})

	It("should panic on a point of the wrong length", func() {
		Expect(func() { w.Eval([]float64{1, 2}) }).To(Panic())
	})

	It("should know which variables it depends on", func() {
		Expect(w.HasNonzeroExponent(0)).To(BeTrue())
		Expect(w.HasNonzeroExponent(1)).To(BeFalse())
		Expect(w.HasNonzeroExponent(2)).To(BeTrue())
	})

	It("should filter variables in the given order", func() {
		f := w.FilterVars([]int{2, 0})
		Expect(f.Dimension()).To(Equal(2))
		Expect(f.Monomials()[1]).To(Equal(wmi.Monomial{Coefficient: 2, Exponents: []int{2, 1}}))
		Expect(f.BoolWeights()).To(Equal([]float64{0.1, 0.9}))
		Expect(f.Eval([]float64{3, 2})).To(Equal(39.0))
	})

	It("should validate its input", func() {
		_, err := wmi.NewWeightFunction(2, []wmi.Monomial{{Coefficient: 1, Exponents: []int{1}}}, nil)
		Expect(err).To(HaveOccurred())
		_, err = wmi.NewWeightFunction(1, []wmi.Monomial{{Coefficient: 1, Exponents: []int{-1}}}, nil)
		Expect(err).To(HaveOccurred())
		_, err = wmi.Constant(1, 1, []float64{1.5})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Instance", func() {
	It("should read a test description", func() {
		in, err := wmi.ReadInstance(strings.NewReader(`{"formula":[[0,[[1,1],["<=",2]]],[2]],"nbReals":1,"nbBools":1,"nbClauses":2}`))
		Expect(err).ToNot(HaveOccurred())
		Expect(in.Formula).To(HaveLen(2))
		Expect(in.NbReals).To(Equal(1))
		Expect(in.NbBools).To(Equal(1))
	})

	It("should write what it reads", func() {
		in := &wmi.Instance{
			Formula: wmi.Formula{{wmi.Bool(1), wmi.Atom(wmi.OpGreaterEq, -3, wmi.Term{Variable: 2, Coefficient: 0.5})}},
			NbReals: 1,
			NbBools: 2,
		}
		var buf bytes.Buffer
		Expect(wmi.WriteInstance(&buf, in)).To(Succeed())
		Expect(buf.String()).To(HaveSuffix("\n"))

		out, err := wmi.ReadInstance(&buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal(in))
	})

	DescribeTable("should reject invalid descriptions",
		func(input string) {
			_, err := wmi.ReadInstance(strings.NewReader(input))
			Expect(err).To(HaveOccurred())
		},
		Entry("not json", `formula`),
		Entry("unknown field", `{"formula":[[0]],"nbReals":0,"nbBools":1,"width":3}`),
		Entry("no clauses", `{"formula":[],"nbReals":0,"nbBools":1}`),
		Entry("negative count", `{"formula":[[0]],"nbReals":-1,"nbBools":1}`),
		Entry("clause count mismatch", `{"formula":[[0]],"nbReals":0,"nbBools":1,"nbClauses":3}`),
		Entry("literal out of range", `{"formula":[[4]],"nbReals":0,"nbBools":1}`),
	)

	It("should surface malformed literals", func() {
		_, err := wmi.ReadInstance(strings.NewReader(`{"formula":[[[[1,1],["~",2]]]],"nbReals":1,"nbBools":1}`))
		var formatErr *wmi.ClauseFormatError
		Expect(errors.As(err, &formatErr)).To(BeTrue())
	})
})
