// Package mesh generates CPU-side triangle geometry for shadow casters and
// receivers. No GL calls are made here; the scene package uploads the arrays.
package mesh

import "github.com/chewxy/math32"

// Data holds interleaved-free vertex arrays and a triangle index list.
// Positions and Normals run in parallel, three floats per vertex.
type Data struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (d Data) VertexCount() int {
	return len(d.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (d Data) TriangleCount() int {
	return len(d.Indices) / 3
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// Bounds computes the AABB of the positions. Zero box for empty data.
func (d Data) Bounds() AABB {
	if len(d.Positions) < 3 {
		return AABB{}
	}
	b := AABB{
		Min: [3]float32{d.Positions[0], d.Positions[1], d.Positions[2]},
		Max: [3]float32{d.Positions[0], d.Positions[1], d.Positions[2]},
	}
	for i := 3; i+2 < len(d.Positions); i += 3 {
		for c := 0; c < 3; c++ {
			v := d.Positions[i+c]
			if v < b.Min[c] {
				b.Min[c] = v
			}
			if v > b.Max[c] {
				b.Max[c] = v
			}
		}
	}
	return b
}

// Profile is one ring of a lathed solid: a radius at a height above the base.
type Profile struct {
	Radius float32
	Y      float32
}

// Lathe revolves a profile around the Y axis into a closed solid. The solid
// sits on y = profile[0].Y with its axis through the origin; bottom and top
// are capped with triangle fans. Rings with zero radius collapse cleanly.
func Lathe(profile []Profile, segments int) Data {
	if len(profile) < 2 || segments < 3 {
		return Data{}
	}

	var d Data

	// Ring vertices. Normals lean outward with the slope between the
	// neighboring rings; exact shading is irrelevant for depth-only casters
	// but receivers reuse this geometry.
	for ri, p := range profile {
		slope := profileSlope(profile, ri)
		for s := 0; s <= segments; s++ {
			ang := 2 * math32.Pi * float32(s) / float32(segments)
			cos, sin := math32.Cos(ang), math32.Sin(ang)

			d.Positions = append(d.Positions, p.Radius*cos, p.Y, p.Radius*sin)

			nx, ny := cos, slope
			nl := math32.Sqrt(nx*nx + ny*ny + sin*sin)
			if nl == 0 {
				nl = 1
			}
			d.Normals = append(d.Normals, nx/nl, ny/nl, sin/nl)
		}
	}

	ringStride := uint32(segments + 1)
	for ri := 0; ri < len(profile)-1; ri++ {
		base := uint32(ri) * ringStride
		for s := uint32(0); s < uint32(segments); s++ {
			a := base + s
			b := base + s + 1
			c := a + ringStride
			e := b + ringStride
			d.Indices = append(d.Indices, a, c, b, b, c, e)
		}
	}

	d.addCap(profile[0], segments, false)
	d.addCap(profile[len(profile)-1], segments, true)

	return d
}

// addCap closes a lathe end with a triangle fan around a center vertex.
func (d *Data) addCap(p Profile, segments int, top bool) {
	if p.Radius <= 0 {
		return
	}

	ny := float32(-1)
	if top {
		ny = 1
	}

	center := uint32(d.VertexCount())
	d.Positions = append(d.Positions, 0, p.Y, 0)
	d.Normals = append(d.Normals, 0, ny, 0)

	start := uint32(d.VertexCount())
	for s := 0; s <= segments; s++ {
		ang := 2 * math32.Pi * float32(s) / float32(segments)
		d.Positions = append(d.Positions, p.Radius*math32.Cos(ang), p.Y, p.Radius*math32.Sin(ang))
		d.Normals = append(d.Normals, 0, ny, 0)
	}

	for s := uint32(0); s < uint32(segments); s++ {
		if top {
			d.Indices = append(d.Indices, center, start+s, start+s+1)
		} else {
			d.Indices = append(d.Indices, center, start+s+1, start+s)
		}
	}
}

func profileSlope(profile []Profile, i int) float32 {
	prev := i - 1
	next := i + 1
	if prev < 0 {
		prev = 0
	}
	if next >= len(profile) {
		next = len(profile) - 1
	}
	dy := profile[next].Y - profile[prev].Y
	if dy == 0 {
		return 0
	}
	// Outward normal tilts up where the radius shrinks with height.
	return (profile[prev].Radius - profile[next].Radius) / dy
}

// TaperedCylinder builds a cylinder standing on y=0 whose radius narrows
// from bottomRadius to topRadius.
func TaperedCylinder(bottomRadius, topRadius, height float32, segments int) Data {
	if height <= 0 || bottomRadius <= 0 || segments < 3 {
		return Data{}
	}
	if topRadius < 0 {
		topRadius = 0
	}
	return Lathe([]Profile{
		{Radius: bottomRadius, Y: 0},
		{Radius: topRadius, Y: height},
	}, segments)
}

// DiscStack builds a canopy-like solid from evenly spaced discs between y=0
// and height; radii[i] is the radius of disc i. The silhouette follows the
// radius list, so a mid-heavy list gives the bulged outline a tree canopy
// needs.
func DiscStack(radii []float32, height float32, segments int) Data {
	if len(radii) < 2 || height <= 0 || segments < 3 {
		return Data{}
	}
	profile := make([]Profile, len(radii))
	step := height / float32(len(radii)-1)
	for i, r := range radii {
		if r < 0 {
			r = 0
		}
		profile[i] = Profile{Radius: r, Y: float32(i) * step}
	}
	return Lathe(profile, segments)
}

// Box builds an axis-aligned box with its base centered on the origin,
// spanning y=0..height. Faces are flat shaded (duplicated vertices).
func Box(width, height, depth float32) Data {
	if width <= 0 || height <= 0 || depth <= 0 {
		return Data{}
	}

	hw, hd := width/2, depth/2
	var d Data

	quad := func(a, b, c, e [3]float32, n [3]float32) {
		base := uint32(d.VertexCount())
		for _, p := range [][3]float32{a, b, c, e} {
			d.Positions = append(d.Positions, p[0], p[1], p[2])
			d.Normals = append(d.Normals, n[0], n[1], n[2])
		}
		d.Indices = append(d.Indices, base, base+1, base+2, base, base+2, base+3)
	}

	// +X, -X, +Z, -Z, top, bottom
	quad([3]float32{hw, 0, hd}, [3]float32{hw, 0, -hd}, [3]float32{hw, height, -hd}, [3]float32{hw, height, hd}, [3]float32{1, 0, 0})
	quad([3]float32{-hw, 0, -hd}, [3]float32{-hw, 0, hd}, [3]float32{-hw, height, hd}, [3]float32{-hw, height, -hd}, [3]float32{-1, 0, 0})
	quad([3]float32{-hw, 0, hd}, [3]float32{hw, 0, hd}, [3]float32{hw, height, hd}, [3]float32{-hw, height, hd}, [3]float32{0, 0, 1})
	quad([3]float32{hw, 0, -hd}, [3]float32{-hw, 0, -hd}, [3]float32{-hw, height, -hd}, [3]float32{hw, height, -hd}, [3]float32{0, 0, -1})
	quad([3]float32{-hw, height, hd}, [3]float32{hw, height, hd}, [3]float32{hw, height, -hd}, [3]float32{-hw, height, -hd}, [3]float32{0, 1, 0})
	quad([3]float32{-hw, 0, -hd}, [3]float32{hw, 0, -hd}, [3]float32{hw, 0, hd}, [3]float32{-hw, 0, hd}, [3]float32{0, -1, 0})

	return d
}

// GroundPlane builds a horizontal quad at y=0 centered on the origin, used
// as the shadow receiver under the viewport.
func GroundPlane(size float32) Data {
	if size <= 0 {
		return Data{}
	}
	h := size / 2
	return Data{
		Positions: []float32{
			-h, 0, -h,
			-h, 0, h,
			h, 0, h,
			h, 0, -h,
		},
		Normals: []float32{
			0, 1, 0,
			0, 1, 0,
			0, 1, 0,
			0, 1, 0,
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
