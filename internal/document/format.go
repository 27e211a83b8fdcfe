package document

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// FormatFloat renders v as plain decimal text with the fewest digits that
// round-trip.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatVec3 renders v as "x y z".
func FormatVec3(v mgl64.Vec3) string {
	return FormatFloats(v[:]...)
}

// FormatFloats joins values with single spaces.
func FormatFloats(vs ...float64) string {
	var b strings.Builder
	for i, v := range vs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(FormatFloat(v))
	}
	return b.String()
}

// FormatInts joins values with single spaces.
func FormatInts(vs ...int) string {
	var b strings.Builder
	for i, v := range vs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

func formatVertices(vs []mgl64.Vec3) string {
	var b strings.Builder
	for i, v := range vs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(FormatVec3(v))
	}
	return b.String()
}

func formatTexCoords(uvs []mgl64.Vec2) string {
	var b strings.Builder
	for i, uv := range uvs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(FormatFloats(uv[0], uv[1]))
	}
	return b.String()
}

func formatFaces(faces [][3]int) string {
	var b strings.Builder
	for i, f := range faces {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(FormatInts(f[0], f[1], f[2]))
	}
	return b.String()
}
