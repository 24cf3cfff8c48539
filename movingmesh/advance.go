package movingmesh

import (
	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/mesh"
)

// Stats accumulates what Advance did
type Stats struct {
	Steps     int
	Moves     int // Steps in which the monitor moved at least one vertex
	Flips     int
	Processed int // Bad triangles handled by refinement
}

// Advance runs steps rounds of relocation by monitor followed by Delaunay
// repair and refinement to bound under mode
func Advance(m *mesh.Mesh, monitor Monitor, steps int, bound float64, mode mesh.RefinementMode) (st Stats) {
	log := m.Options().Logger
	for i := 0; i < steps; i++ {
		st.Steps++
		if m.MovingMesh(monitor.Relocate) {
			st.Moves++
		}
		flips := m.MaintainDelaunay()
		processed := m.Refine(bound, mode)
		st.Flips += flips
		st.Processed += processed
		log.Debugw("moving mesh step", "step", i, "monitor", monitor.Name(),
			"flips", flips, "processed", processed, "vertices", m.NumberOfVertices())
	}
	return
}
