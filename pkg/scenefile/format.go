package scenefile

// The types below mirror the dump layout. Vectors are YAML sequences.

type fileScene struct {
	Render    fileRender          `yaml:"render"`
	World     fileWorld           `yaml:"world"`
	Materials []fileMaterial      `yaml:"materials"`
	Meshes    map[string]fileMesh `yaml:"meshes"`
	Objects   []fileObject        `yaml:"objects"`
}

type fileRender struct {
	ResolutionX int `yaml:"resolution_x"`
	ResolutionY int `yaml:"resolution_y"`
	// Percentage scales both resolutions, 100 when omitted.
	Percentage int `yaml:"resolution_percentage"`
}

type fileWorld struct {
	Background []float64 `yaml:"background"`
}

type fileMaterial struct {
	Name     string     `yaml:"name"`
	UseNodes bool       `yaml:"use_nodes"`
	Nodes    []fileNode `yaml:"nodes"`
}

type fileNode struct {
	Type string `yaml:"type"`

	// BSDF_PRINCIPLED
	BaseColor    []float64 `yaml:"base_color"`
	Metallic     float64   `yaml:"metallic"`
	Specular     float64   `yaml:"specular"`
	Roughness    float64   `yaml:"roughness"`
	Transmission float64   `yaml:"transmission"`

	// TEX_IMAGE
	Image         *fileImage `yaml:"image"`
	Interpolation string     `yaml:"interpolation"`
	Extension     string     `yaml:"extension"`
}

type fileImage struct {
	Name     string `yaml:"name"`
	Filepath string `yaml:"filepath"`
}

type fileMesh struct {
	Vertices [][]float64   `yaml:"vertices"`
	Faces    [][]int       `yaml:"faces"`
	UVs      [][][]float64 `yaml:"uvs"`
}

type fileObject struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	Location      []float64   `yaml:"location"`
	RotationEuler []float64   `yaml:"rotation_euler"`
	Scale         []float64   `yaml:"scale"`
	MatrixWorld   [][]float64 `yaml:"matrix_world"`

	Camera *fileCamera `yaml:"camera"`
	Light  *fileLight  `yaml:"light"`

	Data     string    `yaml:"data"`
	Mesh     *fileMesh `yaml:"mesh"`
	Material string    `yaml:"material"`
}

type fileCamera struct {
	FOV       float64 `yaml:"fov"`
	FOVDeg    float64 `yaml:"fov_deg"`
	ClipStart float64 `yaml:"clip_start"`
}

type fileLight struct {
	Type   string    `yaml:"type"`
	Color  []float64 `yaml:"color"`
	Energy float64   `yaml:"energy"`
}
