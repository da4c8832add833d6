package wmi_test

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/operator-framework/wmidnf/pkg/wmi"
)

var _ = Describe("Operator", func() {
	It("should parse every operator", func() {
		for _, s := range []string{"<=", "<", ">=", ">", "=", "!"} {
			op, err := wmi.ParseOperator(s)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(op)).To(Equal(s))
		}
	})
	It("should reject unknown operators", func() {
		_, err := wmi.ParseOperator("=>")
		var formatErr *wmi.ClauseFormatError
		Expect(errors.As(err, &formatErr)).To(BeTrue())
		Expect(formatErr.Clause).To(Equal(-1))
	})
	It("should compare", func() {
		Expect(wmi.OpLessEq.Holds(2, 2, 0)).To(BeTrue())
		Expect(wmi.OpLess.Holds(2, 2, 0)).To(BeTrue())
		Expect(wmi.OpGreaterEq.Holds(1, 2, 0)).To(BeFalse())
		Expect(wmi.OpEqual.Holds(2+1e-12, 2, 1e-9)).To(BeTrue())
		Expect(wmi.OpEqual.Holds(2.1, 2, 1e-9)).To(BeFalse())
		Expect(wmi.OpNever.Holds(100, -100, 0)).To(BeTrue())
	})
})

var _ = Describe("Literal", func() {
	It("should tell booleans from atoms", func() {
		b := wmi.Bool(3)
		Expect(b.Kind()).To(Equal(wmi.BoolLiteral))
		Expect(b.ID()).To(Equal(3))
		Expect(b.String()).To(Equal("b3"))

		a := wmi.Atom(wmi.OpLessEq, 4, wmi.Term{Variable: 2, Coefficient: 1}, wmi.Term{Variable: 3, Coefficient: -2})
		Expect(a.Kind()).To(Equal(wmi.RealAtom))
		Expect(a.Operator()).To(Equal(wmi.OpLessEq))
		Expect(a.Constant()).To(Equal(4.0))
		Expect(a.Terms()).To(HaveLen(2))
		Expect(a.Sum([]float64{1, 3}, 2)).To(Equal(-5.0))
		Expect(a.String()).To(Equal("(1*x2 + -2*x3 <= 4)"))
		Expect(wmi.Never().Operator()).To(Equal(wmi.OpNever))
	})

	It("should split a clause", func() {
		c := wmi.Clause{wmi.Bool(0), wmi.Atom(wmi.OpGreater, 1, wmi.Term{Variable: 2, Coefficient: 1}), wmi.Bool(5)}
		Expect(c.BoolIDs()).To(Equal([]int{0, 5}))
		Expect(c.Atoms()).To(HaveLen(1))
	})

	Context("JSON", func() {
		It("should encode booleans as ids and atoms as pairs", func() {
			f := wmi.Formula{{wmi.Bool(0), wmi.Atom(wmi.OpLessEq, 2.5, wmi.Term{Variable: 1, Coefficient: 1})}, {wmi.Bool(2)}}
			data, err := json.Marshal(f)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal(`[[0,[[1,1],["<=",2.5]]],[2]]`))

			var decoded wmi.Formula
			Expect(json.Unmarshal(data, &decoded)).To(Succeed())
			Expect(decoded).To(Equal(f))
		})

		DescribeTable("should reject malformed literals",
			func(input string) {
				var l wmi.Literal
				err := json.Unmarshal([]byte(input), &l)
				var formatErr *wmi.ClauseFormatError
				Expect(errors.As(err, &formatErr)).To(BeTrue(), "%v", err)
			},
			Entry("fractional id", `1.5`),
			Entry("string", `"a"`),
			Entry("no operator", `[]`),
			Entry("bad pair", `[[1,2,3],["<=",1]]`),
			Entry("unknown operator", `[[1,2],["~",1]]`),
			Entry("operator not a string", `[[1,2],[1,1]]`),
			Entry("constant not a number", `[[1,2],["<=","x"]]`),
			Entry("variable not an integer", `[[1.5,2],["<=",1]]`),
		)
	})

	Context("Validate", func() {
		It("should accept in-range literals", func() {
			// 2 booleans, 2 reals: 0-1 booleans, 2-3 reals, 4-5 negations
			f := wmi.Formula{{wmi.Bool(0), wmi.Bool(5), wmi.Atom(wmi.OpEqual, 1, wmi.Term{Variable: 3, Coefficient: 1})}}
			Expect(f.Validate(2, 2)).To(Succeed())
		})
		DescribeTable("should reject out of range literals",
			func(l wmi.Literal) {
				err := wmi.Formula{{wmi.Bool(0)}, {l}}.Validate(2, 2)
				var formatErr *wmi.ClauseFormatError
				Expect(errors.As(err, &formatErr)).To(BeTrue())
				Expect(formatErr.Clause).To(Equal(1))
			},
			Entry("real id used as boolean", wmi.Bool(2)),
			Entry("negative id", wmi.Bool(-1)),
			Entry("past the negations", wmi.Bool(6)),
			Entry("boolean id used as real", wmi.Atom(wmi.OpLessEq, 1, wmi.Term{Variable: 1, Coefficient: 1})),
			Entry("unknown operator", wmi.Atom("~", 1, wmi.Term{Variable: 2, Coefficient: 1})),
		)
	})
})

var _ = Describe("Errors", func() {
	It("should unwrap", func() {
		inner := errors.New("inner")
		Expect(errors.Is(&wmi.InfeasiblePolytope{Clause: 2, Err: inner}, inner)).To(BeTrue())
		Expect(errors.Is(&wmi.OracleFailure{Err: inner}, inner)).To(BeTrue())
	})
	It("should only name attached clauses", func() {
		Expect((&wmi.InfeasiblePolytope{Clause: -1, Err: errors.New("x")}).Error()).ToNot(ContainSubstring("clause"))
		Expect((&wmi.InfeasiblePolytope{Clause: 4, Err: errors.New("x")}).Error()).To(HavePrefix("clause 4:"))
	})
})
