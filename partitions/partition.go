package partitions

import (
	"fmt"
	"math"
)

// Partition is a group of triangles assembled together by one worker
type Partition struct {
	ID int

	Elements    []int // Element rows, in the order of mesh.Export.EToV
	NumElements int   // Actual number of elements
	MaxElements int   // Padded size shared by all partitions
}

// PartitionLayout is the complete decomposition of the elements
type PartitionLayout struct {
	Partitions []Partition

	KpartMax      int // max(NumElements) across all partitions
	TotalElements int
	NumPartitions int

	// Element to partition mapping
	EToP []int // Length TotalElements: element k belongs to partition EToP[k]
}

// GetPartition returns the partition containing element k
func (pl *PartitionLayout) GetPartition(elementID int) int {
	if elementID < 0 || elementID >= len(pl.EToP) {
		return -1
	}
	return pl.EToP[elementID]
}

// ValidateLayout checks partition consistency
func (pl *PartitionLayout) ValidateLayout() error {
	actualMax, total := 0, 0
	for i, p := range pl.Partitions {
		if p.ID != i {
			return fmt.Errorf("partition at %d has ID %d", i, p.ID)
		}
		if p.NumElements != len(p.Elements) {
			return fmt.Errorf("partition %d: NumElements %d != %d elements", p.ID, p.NumElements, len(p.Elements))
		}
		if p.MaxElements != pl.KpartMax {
			return fmt.Errorf("partition %d: MaxElements %d != KpartMax %d",
				p.ID, p.MaxElements, pl.KpartMax)
		}
		for _, k := range p.Elements {
			if pl.GetPartition(k) != p.ID {
				return fmt.Errorf("element %d listed in partition %d but mapped to %d", k, p.ID, pl.GetPartition(k))
			}
		}
		actualMax = max(actualMax, p.NumElements)
		total += p.NumElements
	}
	if actualMax != pl.KpartMax {
		return fmt.Errorf("computed KpartMax %d != stored KpartMax %d",
			actualMax, pl.KpartMax)
	}
	if total != pl.TotalElements || len(pl.EToP) != pl.TotalElements {
		return fmt.Errorf("partitions hold %d of %d elements", total, pl.TotalElements)
	}
	return nil
}

type PartitionStats struct {
	NumPartitions int
	MinElements   int
	MaxElements   int
	AvgElements   float64
	Imbalance     float64 // MaxElements / AvgElements
	EdgeCut       int     // Interior edges whose two triangles are in different partitions
}

// PartitionStatistics computes load balance metrics, the edge cut being
// counted over conn
func (pl *PartitionLayout) PartitionStatistics(conn *MeshConnectivity) PartitionStats {
	stats := PartitionStats{
		NumPartitions: pl.NumPartitions,
		MinElements:   math.MaxInt32,
		AvgElements:   float64(pl.TotalElements) / float64(pl.NumPartitions),
	}
	for _, p := range pl.Partitions {
		stats.MinElements = min(stats.MinElements, p.NumElements)
		stats.MaxElements = max(stats.MaxElements, p.NumElements)
	}
	stats.Imbalance = float64(stats.MaxElements) / stats.AvgElements
	for k, nbrs := range conn.EToE {
		for _, n := range nbrs {
			// Each shared edge is seen from both sides
			if n > k && pl.EToP[n] != pl.EToP[k] {
				stats.EdgeCut++
			}
		}
	}
	return stats
}
