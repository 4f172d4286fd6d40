// Package chart turns aggregated period series into abstract, renderer-
// independent chart geometry: a labeled axis plus smooth cubic Bezier
// paths that stay within the bounds of the input samples.
package chart

import (
	"errors"
	"fmt"

	"order-analytics/internal/domain"
)

// ErrNonIncreasingX is returned when path input x values are not strictly
// increasing. The generator fails fast instead of emitting NaN geometry.
var ErrNonIncreasingX = errors.New("chart: x values must be strictly increasing")

// SmoothPath builds a monotone cubic interpolation (Fritsch-Carlson
// tangents) through the given points and returns one Bezier segment per
// input interval. The curve passes through every sample and never
// overshoots: between two samples it stays within their y range, so a
// series of non-negative values never dips below zero.
//
// Fewer than two points yield no path. Exactly two points yield a single
// straight segment.
func SmoothPath(points []domain.Point) ([]domain.CubicSegment, error) {
	n := len(points)
	if n < 2 {
		return nil, nil
	}

	for i := 1; i < n; i++ {
		if points[i].X <= points[i-1].X {
			return nil, fmt.Errorf("%w: x[%d]=%g, x[%d]=%g", ErrNonIncreasingX, i-1, points[i-1].X, i, points[i].X)
		}
	}

	if n == 2 {
		return []domain.CubicSegment{segment(points[0], points[1], secant(points[0], points[1]), secant(points[0], points[1]))}, nil
	}

	dx := make([]float64, n-1)
	slope := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		dx[i] = points[i+1].X - points[i].X
		slope[i] = (points[i+1].Y - points[i].Y) / dx[i]
	}

	// Tangent per sample. Endpoints take the adjacent secant; interior
	// tangents are the Fritsch-Carlson weighted harmonic mean, flattened
	// to zero at local extrema so the curve cannot overshoot.
	m := make([]float64, n)
	m[0] = slope[0]
	m[n-1] = slope[n-2]
	for i := 1; i < n-1; i++ {
		if slope[i-1]*slope[i] <= 0 {
			m[i] = 0
			continue
		}
		m[i] = 3 * (dx[i-1] + dx[i]) / ((dx[i-1]+2*dx[i])/slope[i-1] + (2*dx[i-1]+dx[i])/slope[i])
	}

	segments := make([]domain.CubicSegment, 0, n-1)
	for i := 0; i < n-1; i++ {
		segments = append(segments, segment(points[i], points[i+1], m[i], m[i+1]))
	}
	return segments, nil
}

func secant(a, b domain.Point) float64 {
	return (b.Y - a.Y) / (b.X - a.X)
}

// segment places the Bezier control points a third of the interval along
// each endpoint tangent, the standard Hermite-to-Bezier conversion.
func segment(from, to domain.Point, m0, m1 float64) domain.CubicSegment {
	h := (to.X - from.X) / 3
	return domain.CubicSegment{
		From:  from,
		Ctrl1: domain.Point{X: from.X + h, Y: from.Y + m0*h},
		Ctrl2: domain.Point{X: to.X - h, Y: to.Y - m1*h},
		To:    to,
	}
}
