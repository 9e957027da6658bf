package physics

import "math"

// Vec is a point or direction in play-field coordinates.
type Vec struct {
	X, Y float64
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Overlaps reports whether two boxes share interior area. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}

// Polygon is a closed hit-shape given by its vertices in order.
type Polygon []Vec

// NewPolygon builds a polygon from x, y coordinate pairs.
// A trailing odd coordinate is ignored.
func NewPolygon(coords ...float64) Polygon {
	p := make(Polygon, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		p = append(p, Vec{X: coords[i], Y: coords[i+1]})
	}
	return p
}

// Ellipse approximates a circle of the given diameter inscribed in the box
// (0, 0)-(diameter, diameter) with segments vertices.
func Ellipse(diameter float64, segments int) Polygon {
	if segments < 3 {
		segments = 3
	}
	r := diameter / 2
	p := make(Polygon, segments)
	for i := range p {
		a := 2 * math.Pi * float64(i) / float64(segments)
		p[i] = Vec{X: r + math.Cos(a)*r, Y: r + math.Sin(a)*r}
	}
	return p
}

// Transform places the local shape at (x, y) rotated by angleDeg about the
// local pivot (pivotX, pivotY). Each vertex maps to
// (x, y) + pivot + R(angle)·(v − pivot).
// The result is written into dst when it has enough capacity.
func (p Polygon) Transform(x, y, angleDeg, pivotX, pivotY float64, dst Polygon) Polygon {
	if cap(dst) < len(p) {
		dst = make(Polygon, len(p))
	}
	dst = dst[:len(p)]
	rad := Radians(angleDeg)
	sin, cos := math.Sincos(rad)
	for i, v := range p {
		dx := v.X - pivotX
		dy := v.Y - pivotY
		dst[i] = Vec{
			X: x + pivotX + dx*cos - dy*sin,
			Y: y + pivotY + dx*sin + dy*cos,
		}
	}
	return dst
}

// Translate offsets the shape by (x, y) without rotation.
func (p Polygon) Translate(x, y float64, dst Polygon) Polygon {
	if cap(dst) < len(p) {
		dst = make(Polygon, len(p))
	}
	dst = dst[:len(p)]
	for i, v := range p {
		dst[i] = Vec{X: v.X + x, Y: v.Y + y}
	}
	return dst
}

// Bounds returns the axis-aligned bounding box of the shape.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{MinX: p[0].X, MinY: p[0].Y, MaxX: p[0].X, MaxY: p[0].Y}
	for _, v := range p[1:] {
		r.MinX = math.Min(r.MinX, v.X)
		r.MinY = math.Min(r.MinY, v.Y)
		r.MaxX = math.Max(r.MaxX, v.X)
		r.MaxY = math.Max(r.MaxY, v.Y)
	}
	return r
}

// Center returns the centre of the bounding box.
func (p Polygon) Center() Vec {
	b := p.Bounds()
	return Vec{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// IsConvex reports whether the shape has at least three vertices, non-zero
// area and turns the same way at every vertex.
func IsConvex(p Polygon) bool {
	n := len(p)
	if n < 3 {
		return false
	}
	sign := 0
	area := 0.0
	for i := 0; i < n; i++ {
		a, b, c := p[i], p[(i+1)%n], p[(i+2)%n]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
		area += a.X*b.Y - b.X*a.Y
	}
	return sign != 0 && math.Abs(area) > 1e-9
}

// Overlaps reports whether two convex shapes share a region of non-zero area,
// using the separating axis test. Shapes that only touch do not overlap.
// Shapes with fewer than three vertices never overlap anything.
func Overlaps(a, b Polygon) bool {
	if len(a) < 3 || len(b) < 3 {
		return false
	}
	if !a.Bounds().Overlaps(b.Bounds()) {
		return false
	}
	return !hasSeparatingAxis(a, b) && !hasSeparatingAxis(b, a)
}

// hasSeparatingAxis checks the edge normals of a as candidate axes.
func hasSeparatingAxis(a, b Polygon) bool {
	n := len(a)
	for i := 0; i < n; i++ {
		p1, p2 := a[i], a[(i+1)%n]
		axis := Vec{X: p1.Y - p2.Y, Y: p2.X - p1.X}
		if axis.X == 0 && axis.Y == 0 {
			continue
		}
		minA, maxA := project(a, axis)
		minB, maxB := project(b, axis)
		if maxA <= minB || maxB <= minA {
			return true
		}
	}
	return false
}

func project(p Polygon, axis Vec) (lo, hi float64) {
	lo = p[0].X*axis.X + p[0].Y*axis.Y
	hi = lo
	for _, v := range p[1:] {
		d := v.X*axis.X + v.Y*axis.Y
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return lo, hi
}
