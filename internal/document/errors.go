package document

import "fmt"

// BufferError reports a mesh face that does not fit the shared buffers.
type BufferError struct {
	Msg       string
	Mesh      int
	Index     int
	Vertices  int
	TexCoords int
}

func (e *BufferError) Error() string {
	if e.Mesh != 0 {
		return fmt.Sprintf("document: mesh %d: %s (index %d, %d vertices)", e.Mesh, e.Msg, e.Index, e.Vertices)
	}
	return fmt.Sprintf("document: %s (%d vertices, %d texcoords)", e.Msg, e.Vertices, e.TexCoords)
}
