// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package etf

import (
	"fmt"

	"github.com/0xsoniclabs/etf/digits"
)

// Density is a probability density, not necessarily normalized.
type Density func(float64) float64

// OuterDistribution draws samples from the region outside the partitioned
// interval.
type OuterDistribution interface {
	Sample(b *digits.Bits) float64
	Min() float64
	Max() float64
}

// CategoryKind enumerates the ways the region outside the partitioned
// interval is treated.
type CategoryKind int

const (
	BoundedCategory            CategoryKind = iota // no outer region
	CompositeCategory                              // outer samples are exact
	RejectionCompositeCategory                     // outer samples are filtered by rejection
)

func (k CategoryKind) String() string {
	switch k {
	case BoundedCategory:
		return "bounded"
	case CompositeCategory:
		return "composite"
	case RejectionCompositeCategory:
		return "rejection-composite"
	}
	return fmt.Sprintf("CategoryKind(%d)", int(k))
}

// Category describes the outer region of a density.
type Category struct {
	kind     CategoryKind
	outer    OuterDistribution
	outerPDF Density
	area     float64
}

// Bounded is the category of densities whose support is the partitioned
// interval.
func Bounded() Category {
	return Category{kind: BoundedCategory}
}

// Composite is the category of densities whose outer region, of the given
// area, is sampled exactly by outer.
func Composite(outer OuterDistribution, area float64) Category {
	return Category{kind: CompositeCategory, outer: outer, area: area}
}

// RejectionComposite is the category of densities whose outer region, of
// the given area, is sampled by rejection from outer. The density outerPDF
// of outer must dominate the target density on the outer region; area is
// the area under outerPDF there.
func RejectionComposite(outer OuterDistribution, outerPDF Density, area float64) Category {
	return Category{kind: RejectionCompositeCategory, outer: outer, outerPDF: outerPDF, area: area}
}

func (c Category) Kind() CategoryKind {
	return c.kind
}

// Outer returns the outer distribution, nil for bounded densities.
func (c Category) Outer() OuterDistribution {
	return c.outer
}

// Area returns the area of the outer region, zero for bounded densities.
func (c Category) Area() float64 {
	return c.area
}

func (c Category) String() string {
	return c.kind.String()
}
