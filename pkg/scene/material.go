package scene

import (
	"image"

	"github.com/go-gl/mathgl/mgl64"
)

// Material is a host material. Shading is described by a node graph; only
// graphs with UseNodes set are meaningful.
type Material struct {
	Name     string
	UseNodes bool
	Nodes    []Node
}

// PrincipledBSDF returns the first principled shader node, if any.
func (m *Material) PrincipledBSDF() (*PrincipledBSDF, bool) {
	if m == nil {
		return nil, false
	}
	for _, n := range m.Nodes {
		if p, ok := n.(*PrincipledBSDF); ok {
			return p, true
		}
	}
	return nil, false
}

// ImageTextures returns the image sampling nodes in graph order.
func (m *Material) ImageTextures() []*ImageTexture {
	if m == nil {
		return nil
	}
	var out []*ImageTexture
	for _, n := range m.Nodes {
		if t, ok := n.(*ImageTexture); ok {
			out = append(out, t)
		}
	}
	return out
}

// NodeType identifies a shader node.
type NodeType string

const (
	NodePrincipledBSDF NodeType = "BSDF_PRINCIPLED"
	NodeTexImage       NodeType = "TEX_IMAGE"
)

// Node is a shader graph node.
type Node interface {
	NodeType() NodeType
}

// PrincipledBSDF is the root surface shader node.
type PrincipledBSDF struct {
	BaseColor    mgl64.Vec4 // RGBA
	Metallic     float64
	Specular     float64
	Roughness    float64
	Transmission float64
}

// NodeType implements Node.
func (*PrincipledBSDF) NodeType() NodeType { return NodePrincipledBSDF }

// Interpolation is the pixel filter of an image node.
type Interpolation string

const (
	InterpLinear  Interpolation = "Linear"
	InterpClosest Interpolation = "Closest"
	InterpCubic   Interpolation = "Cubic"
	InterpSmart   Interpolation = "Smart"
)

// Extension is the addressing mode of an image node outside [0,1].
type Extension string

const (
	ExtRepeat Extension = "REPEAT"
	ExtExtend Extension = "EXTEND"
	ExtClip   Extension = "CLIP"
	ExtMirror Extension = "MIRROR"
)

// ImageTexture samples an image.
type ImageTexture struct {
	Image         *Image
	Interpolation Interpolation
	Extension     Extension
}

// NodeType implements Node.
func (*ImageTexture) NodeType() NodeType { return NodeTexImage }

// OtherNode is any node the exporter does not interpret.
type OtherNode struct {
	Type NodeType
}

// NodeType implements Node.
func (n *OtherNode) NodeType() NodeType { return n.Type }

// Image is an image datablock. Pixels, when set, take precedence over
// Filepath.
type Image struct {
	Name     string
	Filepath string
	Pixels   image.Image
}
