package document

import (
	"bufio"
	"encoding/xml"
	"io"
	"os"
	"strconv"

	"go.uber.org/multierr"
)

// WriteOptions controls XML rendering.
type WriteOptions struct {
	Indent bool // Pretty-print with two-space indentation
	Header bool // Emit the <?xml?> declaration
}

type xmlScene struct {
	XMLName           xml.Name     `xml:"Scene"`
	BackgroundColor   string       `xml:"BackgroundColor"`
	ShadowRayEpsilon  string       `xml:"ShadowRayEpsilon"`
	MaxRecursionDepth string       `xml:"MaxRecursionDepth"`
	Cameras           xmlCameras   `xml:"Cameras"`
	Lights            xmlLights    `xml:"Lights"`
	Materials         xmlMaterials `xml:"Materials"`
	Textures          xmlTextures  `xml:"Textures"`
	VertexData        string       `xml:"VertexData"`
	TexCoordData      string       `xml:"TexCoordData"`
	Objects           xmlObjects   `xml:"Objects"`
}

type xmlCameras struct {
	Camera []xmlCamera `xml:"Camera"`
}

type xmlCamera struct {
	ID              int    `xml:"id,attr"`
	Position        string `xml:"Position"`
	Gaze            string `xml:"Gaze"`
	Up              string `xml:"Up"`
	NearPlane       string `xml:"NearPlane"`
	NearDistance    string `xml:"NearDistance"`
	ImageResolution string `xml:"ImageResolution"`
	ImageName       string `xml:"ImageName"`
}

type xmlLights struct {
	AmbientLight string          `xml:"AmbientLight"`
	PointLight   []xmlPointLight `xml:"PointLight"`
}

type xmlPointLight struct {
	ID        int    `xml:"id,attr"`
	Position  string `xml:"Position"`
	Intensity string `xml:"Intensity"`
}

type xmlMaterials struct {
	Material []xmlMaterial `xml:"Material"`
}

type xmlMaterial struct {
	ID                  int    `xml:"id,attr"`
	AmbientReflectance  string `xml:"AmbientReflectance"`
	DiffuseReflectance  string `xml:"DiffuseReflectance"`
	SpecularReflectance string `xml:"SpecularReflectance"`
	MirrorReflectance   string `xml:"MirrorReflectance"`
	PhongExponent       string `xml:"PhongExponent"`
}

type xmlTextures struct {
	Texture []xmlTexture `xml:"Texture"`
}

type xmlTexture struct {
	ID            int    `xml:"id,attr"`
	ImageName     string `xml:"ImageName"`
	Interpolation string `xml:"Interpolation"`
	DecalMode     string `xml:"DecalMode"`
	Appearance    string `xml:"Appearance"`
}

type xmlObjects struct {
	Mesh []xmlMesh `xml:"Mesh"`
}

type xmlMesh struct {
	ID       int    `xml:"id,attr"`
	Material string `xml:"Material"`
	Texture  string `xml:"Texture,omitempty"`
	Faces    string `xml:"Faces"`
}

func toXML(s *Scene) *xmlScene {
	out := &xmlScene{
		BackgroundColor:   FormatInts(s.BackgroundColor[:]...),
		ShadowRayEpsilon:  FormatFloat(s.ShadowRayEpsilon),
		MaxRecursionDepth: strconv.Itoa(s.MaxRecursionDepth),
		Lights:            xmlLights{AmbientLight: FormatVec3(s.AmbientLight)},
		VertexData:        formatVertices(s.VertexData),
		TexCoordData:      formatTexCoords(s.TexCoordData),
	}

	for _, c := range s.Cameras {
		out.Cameras.Camera = append(out.Cameras.Camera, xmlCamera{
			ID:              c.ID,
			Position:        FormatVec3(c.Position),
			Gaze:            FormatVec3(c.Gaze),
			Up:              FormatVec3(c.Up),
			NearPlane:       FormatFloats(c.NearPlane[:]...),
			NearDistance:    FormatFloat(c.NearDistance),
			ImageResolution: FormatInts(c.ImageResolution[:]...),
			ImageName:       c.ImageName,
		})
	}
	for _, l := range s.Lights {
		out.Lights.PointLight = append(out.Lights.PointLight, xmlPointLight{
			ID:        l.ID,
			Position:  FormatVec3(l.Position),
			Intensity: FormatVec3(l.Intensity),
		})
	}
	for _, m := range s.Materials {
		out.Materials.Material = append(out.Materials.Material, xmlMaterial{
			ID:                  m.ID,
			AmbientReflectance:  FormatVec3(m.Ambient),
			DiffuseReflectance:  FormatVec3(m.Diffuse),
			SpecularReflectance: FormatVec3(m.Specular),
			MirrorReflectance:   FormatVec3(m.Mirror),
			PhongExponent:       FormatFloat(m.PhongExponent),
		})
	}
	for _, t := range s.Textures {
		out.Textures.Texture = append(out.Textures.Texture, xmlTexture{
			ID:            t.ID,
			ImageName:     t.ImageName,
			Interpolation: string(t.Interpolation),
			DecalMode:     t.DecalMode,
			Appearance:    string(t.Appearance),
		})
	}
	for _, m := range s.Meshes {
		xm := xmlMesh{
			ID:       m.ID,
			Material: strconv.Itoa(m.Material),
			Faces:    formatFaces(m.Faces),
		}
		if m.Texture > 0 {
			xm.Texture = strconv.Itoa(m.Texture)
		}
		out.Objects.Mesh = append(out.Objects.Mesh, xm)
	}
	return out
}

// Write renders s as XML to w. The document is not validated.
func Write(w io.Writer, s *Scene, opts WriteOptions) error {
	if opts.Header {
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return err
		}
	}
	enc := xml.NewEncoder(w)
	if opts.Indent {
		enc.Indent("", "  ")
	}
	if err := enc.Encode(toXML(s)); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile renders s to path, replacing any existing file.
func WriteFile(path string, s *Scene, opts WriteOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	bw := bufio.NewWriter(f)
	if err := Write(bw, s, opts); err != nil {
		return err
	}
	return bw.Flush()
}
