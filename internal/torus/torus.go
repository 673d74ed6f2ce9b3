// Package torus builds and rotates the sampled point cloud of a torus.
package torus

import (
	"errors"
	"fmt"
	"math"

	m "github.com/Faultbox/ascii-donut/pkg/math"
)

// ErrInvalidParams is returned for non-positive radii or sample counts.
var ErrInvalidParams = errors.New("invalid torus parameters")

// Params describes the torus shape and sampling density.
type Params struct {
	R1       float64 // Tube radius
	R2       float64 // Revolution radius
	NumTheta int     // Samples around the tube
	NumPhi   int     // Samples around the revolution axis
}

// DefaultParams returns the shape used by the terminal demo.
func DefaultParams() Params {
	return Params{R1: 1, R2: 2, NumTheta: 100, NumPhi: 150}
}

// Validate checks that radii and sample counts are positive.
func (p Params) Validate() error {
	if !(p.R1 > 0) || !(p.R2 > 0) {
		return fmt.Errorf("%w: radii must be positive (R1=%g, R2=%g)", ErrInvalidParams, p.R1, p.R2)
	}
	if p.NumTheta <= 0 || p.NumPhi <= 0 {
		return fmt.Errorf("%w: sample counts must be positive (theta=%d, phi=%d)", ErrInvalidParams, p.NumTheta, p.NumPhi)
	}
	return nil
}

// Radius returns the distance from the origin to the outermost surface point.
func (p Params) Radius() float64 {
	return p.R1 + p.R2
}

// Surface owns the torus points and their unit normals.
//
// points[i] and normals[i] always describe the same (theta, phi) sample.
// Sample i corresponds to phi index i/NumTheta and theta index i%NumTheta.
// Rotations rewrite both slices in place and never reorder them.
type Surface struct {
	params  Params
	points  []m.Vec3
	normals []m.Vec3
}

// New samples the torus surface on a full theta x phi grid.
func New(p Params) (*Surface, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	thetas := linspace(0, 2*math.Pi, p.NumTheta)
	phis := linspace(0, 2*math.Pi, p.NumPhi)

	n := p.NumTheta * p.NumPhi
	s := &Surface{
		params:  p,
		points:  make([]m.Vec3, 0, n),
		normals: make([]m.Vec3, 0, n),
	}

	for _, phi := range phis {
		sinPhi, cosPhi := math.Sincos(phi)
		for _, theta := range thetas {
			sinTheta, cosTheta := math.Sincos(theta)

			// Cross-section circle in the xz plane, revolved around z.
			ring := p.R2 + p.R1*cosTheta
			s.points = append(s.points, m.Vec3{
				X: ring * cosPhi,
				Y: ring * sinPhi,
				Z: p.R1 * sinTheta,
			})
			s.normals = append(s.normals, m.Vec3{
				X: cosPhi * cosTheta,
				Y: sinPhi * cosTheta,
				Z: sinTheta,
			})
		}
	}

	return s, nil
}

// linspace returns n evenly spaced values over [start, stop], both inclusive.
func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// Params returns the construction parameters.
func (s *Surface) Params() Params {
	return s.params
}

// Len returns the number of samples.
func (s *Surface) Len() int {
	return len(s.points)
}

// Point returns the i-th sample position.
func (s *Surface) Point(i int) m.Vec3 {
	return s.points[i]
}

// Normal returns the i-th sample normal.
func (s *Surface) Normal(i int) m.Vec3 {
	return s.normals[i]
}

// Points returns a snapshot of all positions.
func (s *Surface) Points() []m.Vec3 {
	return append([]m.Vec3(nil), s.points...)
}

// Normals returns a snapshot of all normals.
func (s *Surface) Normals() []m.Vec3 {
	return append([]m.Vec3(nil), s.normals...)
}

// rotate applies rot to every point and normal in place. rot must be a
// rotation so that normals stay unit length.
func (s *Surface) rotate(rot m.Mat3) {
	for i := range s.points {
		s.points[i] = rot.MulVec3(s.points[i])
		s.normals[i] = rot.MulVec3(s.normals[i])
	}
}

// RotateX rotates the surface around the X axis by angle radians.
func (s *Surface) RotateX(angle float64) {
	s.rotate(m.RotateX(angle))
}

// RotateY rotates the surface around the Y axis by angle radians.
func (s *Surface) RotateY(angle float64) {
	s.rotate(m.RotateY(angle))
}
