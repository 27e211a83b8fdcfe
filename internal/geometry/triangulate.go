package geometry

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

const areaEpsilon = 1e-12

// Triangulate splits a planar (or nearly planar) polygon into triangles.
// It returns exactly len(pts)-2 triangles of indices into pts, each wound
// like the input polygon. Polygons with fewer than three corners yield nil.
//
// The polygon is projected onto the axis plane facing its Newell normal
// and ear-clipped. When no ear can be found (degenerate or
// self-intersecting outlines) the remaining corners are fanned.
func Triangulate(pts []mgl64.Vec3) [][3]int {
	n := len(pts)
	if n < 3 {
		return nil
	}
	if n == 3 {
		return [][3]int{{0, 1, 2}}
	}

	tris := make([][3]int, 0, n-2)
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	normal := newellNormal(pts)
	if normal.Len() < areaEpsilon {
		return fan(tris, remaining)
	}
	flat := project(pts, normal)

	orientation := 1.0
	if signedArea(flat) < 0 {
		orientation = -1
	}

	for len(remaining) > 3 {
		ear := findEar(flat, remaining, orientation)
		if ear < 0 {
			return fan(tris, remaining)
		}
		k := len(remaining)
		prev := remaining[(ear+k-1)%k]
		next := remaining[(ear+1)%k]
		tris = append(tris, [3]int{prev, remaining[ear], next})
		remaining = append(remaining[:ear], remaining[ear+1:]...)
	}
	return append(tris, [3]int{remaining[0], remaining[1], remaining[2]})
}

// fan appends a triangle fan over the given corners, anchored at the first.
func fan(tris [][3]int, corners []int) [][3]int {
	for i := 1; i+1 < len(corners); i++ {
		tris = append(tris, [3]int{corners[0], corners[i], corners[i+1]})
	}
	return tris
}

func findEar(flat []mgl64.Vec2, remaining []int, orientation float64) int {
	k := len(remaining)
	for i := 0; i < k; i++ {
		a := flat[remaining[(i+k-1)%k]]
		b := flat[remaining[i]]
		c := flat[remaining[(i+1)%k]]
		if cross2(a, b, c)*orientation <= areaEpsilon {
			continue // reflex or collinear
		}
		if containsAny(flat, remaining, i, a, b, c) {
			continue
		}
		return i
	}
	return -1
}

// containsAny reports whether a remaining corner other than the candidate
// ear's own lies inside or on triangle abc.
func containsAny(flat []mgl64.Vec2, remaining []int, ear int, a, b, c mgl64.Vec2) bool {
	k := len(remaining)
	for j := 0; j < k; j++ {
		if j == ear || j == (ear+k-1)%k || j == (ear+1)%k {
			continue
		}
		p := flat[remaining[j]]
		if p.ApproxEqual(a) || p.ApproxEqual(b) || p.ApproxEqual(c) {
			continue
		}
		if inTriangle(p, a, b, c) {
			return true
		}
	}
	return false
}

func inTriangle(p, a, b, c mgl64.Vec2) bool {
	d1 := cross2(a, b, p)
	d2 := cross2(b, c, p)
	d3 := cross2(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// cross2 is the z component of (b-a) x (c-b).
func cross2(a, b, c mgl64.Vec2) float64 {
	return (b[0]-a[0])*(c[1]-b[1]) - (b[1]-a[1])*(c[0]-b[0])
}

func signedArea(flat []mgl64.Vec2) float64 {
	var area float64
	for i := range flat {
		p, q := flat[i], flat[(i+1)%len(flat)]
		area += p[0]*q[1] - q[0]*p[1]
	}
	return area / 2
}

func newellNormal(pts []mgl64.Vec3) mgl64.Vec3 {
	var n mgl64.Vec3
	for i := range pts {
		cur, nxt := pts[i], pts[(i+1)%len(pts)]
		n[0] += (cur[1] - nxt[1]) * (cur[2] + nxt[2])
		n[1] += (cur[2] - nxt[2]) * (cur[0] + nxt[0])
		n[2] += (cur[0] - nxt[0]) * (cur[1] + nxt[1])
	}
	return n
}

// project drops the coordinate along the normal's dominant axis.
func project(pts []mgl64.Vec3, normal mgl64.Vec3) []mgl64.Vec2 {
	ax, ay, az := gomath.Abs(normal[0]), gomath.Abs(normal[1]), gomath.Abs(normal[2])
	u, v := 0, 1
	switch {
	case ax >= ay && ax >= az:
		u, v = 1, 2
	case ay >= ax && ay >= az:
		u, v = 2, 0
	}
	flat := make([]mgl64.Vec2, len(pts))
	for i, p := range pts {
		flat[i] = mgl64.Vec2{p[u], p[v]}
	}
	return flat
}
