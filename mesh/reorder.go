package mesh

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// StartPolicy picks the root of each Cuthill-McKee traversal
type StartPolicy uint8

const (
	RandomStart StartPolicy = iota
	PseudoPeripheralStart
	MinimumDegreeStart
)

func (sp StartPolicy) String() string {
	switch sp {
	case RandomStart:
		return "random"
	case PseudoPeripheralStart:
		return "pseudoperipheral"
	case MinimumDegreeStart:
		return "mindegree"
	default:
		panic("unknown start policy")
	}
}

// ParseStartPolicy is the inverse of StartPolicy.String
func ParseStartPolicy(s string) (StartPolicy, error) {
	switch s {
	case "random":
		return RandomStart, nil
	case "pseudoperipheral", "pseudo-peripheral":
		return PseudoPeripheralStart, nil
	case "mindegree", "minimum-degree":
		return MinimumDegreeStart, nil
	}
	return 0, fmt.Errorf("unknown start policy %q", s)
}

// vertexGraph is the adjacency graph of the non border vertices
func (m *Mesh) vertexGraph() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for v := m.first; v != NilVertex; v = m.vertices[v].next {
		if !m.vertices[v].IsBorder {
			g.AddNode(simple.Node(v))
		}
	}
	for _, e := range m.edges {
		if !e.alive {
			continue
		}
		a, b := m.vertices[e.verts[0]], m.vertices[e.verts[1]]
		if a.IsBorder || b.IsBorder || !a.linked || !b.linked {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(a.id), simple.Node(b.id)))
	}
	return g
}

// CuthillMcKee relabels the non border vertices 0..n-1 in breadth first order,
// reversed when reverse is set, and relinks the vertex sequence to match with
// the border vertices, labelled -1, at the end. Topology is untouched.
func (m *Mesh) CuthillMcKee(reverse bool, policy StartPolicy) {
	var (
		g       = m.vertexGraph()
		rng     = rand.New(rand.NewPCG(m.opts.Seed, m.opts.Seed^0x9e3779b97f4a7c15))
		visited = make(map[int64]bool)
		order   = make([]VertexID, 0, g.Nodes().Len())
		nodes   = graph.NodesOf(g.Nodes())
	)
	degree := func(n graph.Node) int { return g.From(n.ID()).Len() }
	slices.SortFunc(nodes, func(a, b graph.Node) int { return int(a.ID() - b.ID()) })

	for len(order) < len(nodes) {
		var unvisited []graph.Node
		for _, n := range nodes {
			if !visited[n.ID()] {
				unvisited = append(unvisited, n)
			}
		}
		var root graph.Node
		switch policy {
		case RandomStart:
			root = unvisited[rng.IntN(len(unvisited))]
		case MinimumDegreeStart:
			root = minDegree(unvisited, degree)
		case PseudoPeripheralStart:
			root = pseudoPeripheral(g, minDegree(unvisited, degree), degree)
		default:
			panic(fmt.Errorf("unknown start policy %d", policy))
		}
		visited[root.ID()] = true
		queue := []graph.Node{root}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			order = append(order, VertexID(n.ID()))
			next := graph.NodesOf(g.From(n.ID()))
			slices.SortFunc(next, func(a, b graph.Node) int {
				if da, db := degree(a), degree(b); da != db {
					return da - db
				}
				return int(a.ID() - b.ID())
			})
			for _, x := range next {
				if !visited[x.ID()] {
					visited[x.ID()] = true
					queue = append(queue, x)
				}
			}
		}
	}
	if reverse {
		slices.Reverse(order)
	}

	seq := make([]VertexID, 0, m.nVertices)
	for i, v := range order {
		m.vertices[v].Label = i
		seq = append(seq, v)
	}
	for v := m.first; v != NilVertex; v = m.vertices[v].next {
		if m.vertices[v].IsBorder {
			m.vertices[v].Label = -1
			seq = append(seq, v)
		}
	}
	m.relink(seq)
	m.log.Debugw("vertices reordered", "labelled", len(order), "reverse", reverse,
		"start", policy.String(), "bandwidth", m.Bandwidth())
}

func minDegree(nodes []graph.Node, degree func(graph.Node) int) graph.Node {
	best := nodes[0]
	for _, n := range nodes[1:] {
		if degree(n) < degree(best) {
			best = n
		}
	}
	return best
}

// levels returns the breadth first level structure rooted at from
func levels(g traverse.Graph, from graph.Node) (ls [][]graph.Node) {
	var bf traverse.BreadthFirst
	bf.Walk(g, from, func(n graph.Node, d int) bool {
		if d == len(ls) {
			ls = append(ls, nil)
		}
		ls[d] = append(ls[d], n)
		return false
	})
	return
}

// pseudoPeripheral walks to the far end of the level structure until the
// eccentricity stops growing (George and Liu)
func pseudoPeripheral(g traverse.Graph, start graph.Node, degree func(graph.Node) int) graph.Node {
	root := start
	ls := levels(g, root)
	for {
		cand := minDegree(ls[len(ls)-1], degree)
		cls := levels(g, cand)
		if len(cls) <= len(ls) {
			return root
		}
		root, ls = cand, cls
	}
}

// Bandwidth is the largest label difference across an edge between labelled
// vertices
func (m *Mesh) Bandwidth() (bw int) {
	for _, e := range m.edges {
		if !e.alive {
			continue
		}
		la, lb := m.vertices[e.verts[0]].Label, m.vertices[e.verts[1]].Label
		if la < 0 || lb < 0 {
			continue
		}
		if d := la - lb; d > bw {
			bw = d
		} else if -d > bw {
			bw = -d
		}
	}
	return
}
