package polytope_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/wmidnf/internal/polytope"
	"github.com/operator-framework/wmidnf/pkg/wmi"
)

func x(v int, c float64) wmi.Term {
	return wmi.Term{Variable: v, Coefficient: c}
}

func domain(t *testing.T, dim int, lower, upper float64) *wmi.Domain {
	d, err := wmi.NewDomain(dim, lower, upper)
	require.NoError(t, err)
	return d
}

func TestAtomRows(t *testing.T) {
	type tc struct {
		Name string
		Atom wmi.Literal
		A    [][]float64
		B    []float64
	}

	for _, tt := range []tc{
		{
			Name: "less or equal",
			Atom: wmi.Atom(wmi.OpLessEq, 4, x(1, 2), x(2, -1)),
			A:    [][]float64{{2, -1}},
			B:    []float64{4},
		},
		{
			Name: "strict is not distinguished",
			Atom: wmi.Atom(wmi.OpLess, 4, x(1, 2)),
			A:    [][]float64{{2, 0}},
			B:    []float64{4},
		},
		{
			Name: "greater or equal is negated",
			Atom: wmi.Atom(wmi.OpGreaterEq, 3, x(2, 1)),
			A:    [][]float64{{0, -1}},
			B:    []float64{-3},
		},
		{
			Name: "equality yields both orientations",
			Atom: wmi.Atom(wmi.OpEqual, 1, x(1, 1), x(2, 1)),
			A:    [][]float64{{1, 1}, {-1, -1}},
			B:    []float64{1, -1},
		},
		{
			Name: "repeated variables are summed",
			Atom: wmi.Atom(wmi.OpLessEq, 0, x(1, 1), x(1, 2)),
			A:    [][]float64{{3, 0}},
			B:    []float64{0},
		},
		{
			Name: "never yields nothing",
			Atom: wmi.Never(x(1, 1)),
		},
		{
			Name: "boolean yields nothing",
			Atom: wmi.Bool(0),
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			a, b := polytope.AtomRows(tt.Atom, 2, 1)
			if diff := cmp.Diff(tt.A, a, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("unexpected rows (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.B, b, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("unexpected bounds (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromClause(t *testing.T) {
	d := domain(t, 2, 0, 10)
	p := polytope.FromClause(wmi.Clause{
		wmi.Bool(0),
		wmi.Atom(wmi.OpLessEq, 4, x(1, 1), x(2, 1)),
	}, d, 1)

	require.Equal(t, 5, p.Rows())
	require.Equal(t, 2, p.Cols())

	var rows [][]float64
	for i := 0; i < p.Rows(); i++ {
		rows = append(rows, append([]float64(nil), p.Row(i)...))
	}
	want := [][]float64{{1, 1}, {-1, 0}, {0, -1}, {1, 0}, {0, 1}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("unexpected rows (-want +got):\n%s", diff)
	}
	assert.Equal(t, []float64{4, 0, 0, 10, 10}, p.B)

	assert.True(t, p.Contains([]float64{1, 1}, 0))
	assert.False(t, p.Contains([]float64{3, 3}, 1e-9))
	row, excess := p.Violation([]float64{3, 3})
	assert.Equal(t, 0, row)
	assert.InDelta(t, 2, excess, 1e-12)
}

func TestReduce(t *testing.T) {
	p := polytope.New([][]float64{{1, 0, 2}, {0, 1, 0}, {0, 0, -1}}, []float64{1, 2, 3}, 3)
	r := p.Reduce([]int{2, 0})
	require.Equal(t, 2, r.Rows())
	assert.Equal(t, []float64{2, 1}, r.Row(0))
	assert.Equal(t, []float64{-1, 0}, r.Row(1))
	assert.Equal(t, []float64{1, 3}, r.B)

	empty := p.Reduce(nil)
	assert.Equal(t, 0, empty.Rows())
	assert.Nil(t, empty.A)
}

func TestPartition(t *testing.T) {
	atoms := []wmi.Literal{
		wmi.Atom(wmi.OpGreaterEq, 2, x(0, 1), x(1, 0), x(2, 0), x(3, 0)),
		wmi.Atom(wmi.OpLessEq, 7, x(0, 0), x(1, 1), x(2, 0), x(3, 0)),
		wmi.Never(x(3, 1)),
	}
	active, free := polytope.Partition(atoms, 4, 0)
	assert.Equal(t, []int{0, 1}, active)
	assert.Equal(t, []int{2, 3}, free)

	active, free = polytope.Partition(nil, 2, 0)
	assert.Empty(t, active)
	assert.Equal(t, []int{0, 1}, free)
}

func TestInteriorPoint(t *testing.T) {
	type tc struct {
		Name   string
		Dim    int
		Atoms  []wmi.Literal
		Expect []float64
	}

	for _, tt := range []tc{
		{
			Name:   "no atoms",
			Dim:    3,
			Expect: []float64{5, 5, 5},
		},
		{
			Name: "active and free variables",
			Dim:  4,
			Atoms: []wmi.Literal{
				wmi.Atom(wmi.OpGreaterEq, 2, x(0, 1), x(1, 0), x(2, 0), x(3, 0)),
				wmi.Atom(wmi.OpLessEq, 8, x(0, 1), x(1, 0), x(2, 0), x(3, 0)),
				wmi.Atom(wmi.OpGreaterEq, 3, x(0, 0), x(1, 1), x(2, 0), x(3, 0)),
				wmi.Atom(wmi.OpLessEq, 7, x(0, 0), x(1, 1), x(2, 0), x(3, 0)),
			},
			Expect: []float64{5, 5, 5, 5},
		},
		{
			Name:   "single bound",
			Dim:    1,
			Atoms:  []wmi.Literal{wmi.Atom(wmi.OpLessEq, 2, x(0, 1))},
			Expect: []float64{1},
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			p, err := polytope.InteriorPoint(tt.Atoms, domain(t, tt.Dim, 0, 10), 0)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.Expect, p, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
				t.Errorf("unexpected interior point (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInteriorPointInfeasible(t *testing.T) {
	atoms := []wmi.Literal{
		wmi.Atom(wmi.OpGreaterEq, 6, x(0, 1), x(1, 1)),
		wmi.Atom(wmi.OpLessEq, 2, x(0, 1), x(1, 1)),
	}
	_, err := polytope.InteriorPoint(atoms, domain(t, 2, 0, 10), 0)
	require.Error(t, err)

	var infeasible *wmi.InfeasiblePolytope
	require.True(t, errors.As(err, &infeasible))
	assert.Equal(t, -1, infeasible.Clause)
}

func TestChebyshevCenter(t *testing.T) {
	// [2, 8] x [3, 7]
	a := [][]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	b := []float64{8, -2, 7, -3}
	c, err := polytope.ChebyshevCenter(a, b)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5, 5}, c, 1e-6)

	// triangle x, y >= 0, x + y <= 2: incenter at 2 - sqrt(2) on each axis
	a = [][]float64{{-1, 0}, {0, -1}, {1, 1}}
	b = []float64{0, 0, 2}
	c, err = polytope.ChebyshevCenter(a, b)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5857864, 0.5857864}, c, 1e-6)

	_, err = polytope.ChebyshevCenter(nil, nil)
	assert.Error(t, err)
}
