package globe

import "math"

// Sphere subdivision. Fixed: the globe is always viewed from far enough
// away that 64x32 is smooth at any reasonable resolution.
const (
	meshSegments = 64
	meshRings    = 32
)

// VertexStride is the number of floats per vertex in Mesh.Vertices:
// position (3), normal (3), uv (2), interleaved.
const VertexStride = 8

// Mesh is a UV sphere laid out for direct vertex-buffer upload.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (m Mesh) VertexCount() int {
	return len(m.Vertices) / VertexStride
}

// NewSphereMesh builds the sphere geometry at the given radius. UVs are
// equirectangular: u follows longitude with the seam at the back of the
// unrotated mesh, v runs 0 at the north pole to 1 at the south.
func NewSphereMesh(radius float64) Mesh {
	vertexCount := (meshRings + 1) * (meshSegments + 1)
	vertices := make([]float32, 0, vertexCount*VertexStride)
	indices := make([]uint32, 0, meshRings*meshSegments*6)

	for ring := 0; ring <= meshRings; ring++ {
		theta := float64(ring) * math.Pi / float64(meshRings)
		sinTheta := math.Sin(theta)
		cosTheta := math.Cos(theta)

		for seg := 0; seg <= meshSegments; seg++ {
			phi := float64(seg) * 2.0 * math.Pi / float64(meshSegments)

			// Unit normal; longitude measured so that atan2(x, z) == phi,
			// matching the sun-direction frame in sun.go.
			x := math.Sin(phi) * sinTheta
			y := cosTheta
			z := math.Cos(phi) * sinTheta

			vertices = append(vertices,
				float32(x*radius), float32(y*radius), float32(z*radius),
				float32(x), float32(y), float32(z),
				float32(float64(seg)/float64(meshSegments)),
				float32(float64(ring)/float64(meshRings)),
			)
		}
	}

	for ring := 0; ring < meshRings; ring++ {
		for seg := 0; seg < meshSegments; seg++ {
			current := uint32(ring*(meshSegments+1) + seg)
			next := current + meshSegments + 1

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return Mesh{Vertices: vertices, Indices: indices}
}
