package wmi

import (
	"fmt"
	"math"
)

// Domain is the box [lower, upper]^dimension the continuous variables
// live in.
type Domain struct {
	dimension int
	lower     float64
	upper     float64
}

func NewDomain(dimension int, lower, upper float64) (*Domain, error) {
	if dimension < 0 {
		return nil, fmt.Errorf("invalid domain dimension %d", dimension)
	}
	if math.IsNaN(lower) || math.IsNaN(upper) || lower > upper {
		return nil, fmt.Errorf("invalid domain bounds [%g, %g]", lower, upper)
	}
	return &Domain{dimension: dimension, lower: lower, upper: upper}, nil
}

func (d *Domain) Dimension() int { return d.dimension }

func (d *Domain) Lower() float64 { return d.lower }

func (d *Domain) Upper() float64 { return d.upper }

func (d *Domain) Width() float64 { return d.upper - d.lower }

func (d *Domain) Midpoint() float64 { return (d.lower + d.upper) / 2 }

// Volume is Width^dimension.
func (d *Domain) Volume() float64 {
	return math.Pow(d.Width(), float64(d.dimension))
}

// Center returns the midpoint broadcast over every axis.
func (d *Domain) Center() []float64 {
	c := make([]float64, d.dimension)
	for i := range c {
		c[i] = d.Midpoint()
	}
	return c
}

// HRep returns the box as rows a·x <= b: first -x_i <= -lower for every
// axis, then x_i <= upper for every axis.
func (d *Domain) HRep() ([][]float64, []float64) {
	a := make([][]float64, 0, 2*d.dimension)
	b := make([]float64, 0, 2*d.dimension)
	for i := 0; i < d.dimension; i++ {
		row := make([]float64, d.dimension)
		row[i] = -1
		a = append(a, row)
		b = append(b, -d.lower)
	}
	for i := 0; i < d.dimension; i++ {
		row := make([]float64, d.dimension)
		row[i] = 1
		a = append(a, row)
		b = append(b, d.upper)
	}
	return a, b
}

func (d *Domain) String() string {
	return fmt.Sprintf("[%g, %g]^%d", d.lower, d.upper, d.dimension)
}
