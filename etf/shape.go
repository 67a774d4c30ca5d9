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

import "fmt"

// ShapeKind enumerates the supported density shapes.
type ShapeKind int

const (
	AsymmetricShape ShapeKind = iota // no symmetry
	CentralShape                     // symmetric about zero
	SymmetricShape                   // symmetric about an origin
)

func (k ShapeKind) String() string {
	switch k {
	case AsymmetricShape:
		return "asymmetric"
	case CentralShape:
		return "central"
	case SymmetricShape:
		return "symmetric"
	}
	return fmt.Sprintf("ShapeKind(%d)", int(k))
}

// Shape describes the symmetry of a density. For central and symmetric
// shapes only one half of the density is tabulated and the sign of a sample
// is taken from the most significant random bit.
type Shape struct {
	kind   ShapeKind
	origin float64
}

// Asymmetric is the shape of a density without symmetry.
func Asymmetric() Shape {
	return Shape{kind: AsymmetricShape}
}

// Central is the shape of a density symmetric about zero.
func Central() Shape {
	return Shape{kind: CentralShape}
}

// Symmetric is the shape of a density symmetric about origin.
func Symmetric(origin float64) Shape {
	return Shape{kind: SymmetricShape, origin: origin}
}

func (s Shape) Kind() ShapeKind {
	return s.kind
}

// Origin is the center of symmetry; zero unless the shape is symmetric.
func (s Shape) Origin() float64 {
	return s.origin
}

// signBits is the number of random bits reserved for the sign.
func (s Shape) signBits() uint {
	if s.kind == AsymmetricShape {
		return 0
	}
	return 1
}

func (s Shape) String() string {
	if s.kind == SymmetricShape {
		return fmt.Sprintf("%v(%v)", s.kind, s.origin)
	}
	return s.kind.String()
}
