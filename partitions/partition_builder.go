package partitions

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/freds0/HighPrecisionAdaptiveMesh-sub000/mesh"
)

// PartitionBuilder constructs partitions from mesh connectivity
type PartitionBuilder struct {
	Mesh *MeshConnectivity

	TargetPartitionSize int // Desired elements per partition
	Strategy            PartitionStrategy
}

// MeshConnectivity is the element adjacency needed for partitioning
type MeshConnectivity struct {
	NumElements int
	EToE        [][]int // Element to neighboring elements, boundary sides omitted
}

// PartitionStrategy defines how elements are grouped
type PartitionStrategy int

const (
	BlockPartition PartitionStrategy = iota // Consecutive elements
	RoundRobin                              // Distribute cyclically
	GraphPartition                          // Breadth first growth over element neighbors
)

func (ps PartitionStrategy) String() string {
	switch ps {
	case BlockPartition:
		return "block"
	case RoundRobin:
		return "roundrobin"
	case GraphPartition:
		return "graph"
	}
	return fmt.Sprintf("PartitionStrategy(%d)", int(ps))
}

func ParseStrategy(s string) (PartitionStrategy, error) {
	for _, ps := range []PartitionStrategy{BlockPartition, RoundRobin, GraphPartition} {
		if ps.String() == s {
			return ps, nil
		}
	}
	return 0, fmt.Errorf("unknown partition strategy %q", s)
}

// NewMeshConnectivity reads the element adjacency of m, with elements numbered
// as the rows of ex.EToV
func NewMeshConnectivity(m *mesh.Mesh, ex mesh.Export) *MeshConnectivity {
	conn := &MeshConnectivity{
		NumElements: len(ex.Elem),
		EToE:        make([][]int, len(ex.Elem)),
	}
	for tid, k := range ex.Elem {
		tri := m.Triangle(tid)
		for i := 0; i < 3; i++ {
			if n := tri.Neighbor(i); n != mesh.NilTriangle {
				conn.EToE[k] = append(conn.EToE[k], ex.Elem[n])
			}
		}
		slices.Sort(conn.EToE[k])
	}
	return conn
}

// BuildPartitions creates a partition layout from mesh connectivity
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.TargetPartitionSize <= 0 {
		return nil, fmt.Errorf("target partition size %d must be positive", pb.TargetPartitionSize)
	}
	numPartitions := pb.calculateNumPartitions()
	eToP := pb.partitionElements(numPartitions)
	partitions := pb.createPartitions(eToP, numPartitions)

	kpartMax := 0
	for _, p := range partitions {
		kpartMax = max(kpartMax, p.NumElements)
	}
	for i := range partitions {
		partitions[i].MaxElements = kpartMax
	}

	layout := &PartitionLayout{
		Partitions:    partitions,
		KpartMax:      kpartMax,
		TotalElements: pb.Mesh.NumElements,
		NumPartitions: numPartitions,
		EToP:          eToP,
	}
	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}
	return layout, nil
}

func (pb *PartitionBuilder) calculateNumPartitions() int {
	return max(1, int(math.Ceil(float64(pb.Mesh.NumElements)/float64(pb.TargetPartitionSize))))
}

// partitionElements assigns elements to partitions
func (pb *PartitionBuilder) partitionElements(numPartitions int) []int {
	eToP := make([]int, pb.Mesh.NumElements)
	per := int(math.Ceil(float64(pb.Mesh.NumElements) / float64(numPartitions)))

	switch pb.Strategy {
	case RoundRobin:
		for i := range eToP {
			eToP[i] = i % numPartitions
		}
	case GraphPartition:
		for i, k := range pb.breadthFirstOrder() {
			eToP[k] = min(i/per, numPartitions-1)
		}
	default:
		for i := range eToP {
			eToP[i] = min(i/per, numPartitions-1)
		}
	}
	return eToP
}

// breadthFirstOrder lists the elements component by component in breadth
// first order, so that consecutive runs are spatially compact
func (pb *PartitionBuilder) breadthFirstOrder() []int {
	g := simple.NewUndirectedGraph()
	for k := 0; k < pb.Mesh.NumElements; k++ {
		g.AddNode(simple.Node(k))
	}
	for k, nbrs := range pb.Mesh.EToE {
		for _, n := range nbrs {
			if n > k {
				g.SetEdge(g.NewEdge(simple.Node(k), simple.Node(n)))
			}
		}
	}
	var (
		order = make([]int, 0, pb.Mesh.NumElements)
		bf    traverse.BreadthFirst
	)
	for k := 0; k < pb.Mesh.NumElements; k++ {
		if bf.Visited(simple.Node(k)) {
			continue
		}
		bf.Walk(g, simple.Node(k), func(n graph.Node, _ int) bool {
			order = append(order, int(n.ID()))
			return false
		})
	}
	return order
}

// createPartitions builds partition structures from element assignments
func (pb *PartitionBuilder) createPartitions(eToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)
	for i := range partitions {
		partitions[i].ID = i
	}
	for k, p := range eToP {
		partitions[p].Elements = append(partitions[p].Elements, k)
	}
	for i := range partitions {
		partitions[i].NumElements = len(partitions[i].Elements)
	}
	return partitions
}
