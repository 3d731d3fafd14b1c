package graph

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/graph/simple"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
)

// Graph is the relationship graph around one center table.
type Graph struct {
	Center    *Node   `json:"center"`
	Connected []*Node `json:"connected"`
	Edges     []*Edge `json:"edges"`
	Metrics   Metrics `json:"metrics"`

	nodes []*Node
	byID  map[string]*Node
	adj   *simple.UndirectedGraph
}

// Build constructs the graph for center from relationship records and a
// table metadata lookup. Tables missing from the lookup are labelled by name
// and treated as standard.
//
// Connected nodes appear in first-seen order over rels. Relationships with a
// blank endpoint are rejected with INVALID_RELATIONSHIP.
func Build(center string, rels []Relationship, tables []Table) (*Graph, error) {
	if err := apperrors.ValidateTableName(center); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRelationship, err, "invalid center table")
	}
	meta := make(map[string]Table, len(tables))
	for _, t := range tables {
		meta[t.Name] = t
	}

	g := &Graph{
		byID: make(map[string]*Node),
		adj:  simple.NewUndirectedGraph(),
	}
	g.Center = g.addNode(center, RoleCenter, meta)

	for i, r := range rels {
		if err := apperrors.ValidateTableName(r.SourceTable); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRelationship, err, "relationship %d: source", i)
		}
		if err := apperrors.ValidateTableName(r.TargetTable); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRelationship, err, "relationship %d: target", i)
		}
		for _, name := range []string{r.SourceTable, r.TargetTable} {
			if _, ok := g.byID[name]; !ok {
				g.Connected = append(g.Connected, g.addNode(name, RoleConnected, meta))
			}
		}
	}

	g.Edges = make([]*Edge, 0, len(rels))
	for _, r := range rels {
		src, dst := g.byID[r.SourceTable], g.byID[r.TargetTable]
		e := &Edge{
			ID:          r.SourceTable + "-" + r.TargetTable + "-" + r.FieldName,
			SourceTable: r.SourceTable,
			TargetTable: r.TargetTable,
			FieldName:   r.FieldName,
			FieldLabel:  r.FieldLabel,
			IsCustom:    r.IsCustom,
			IsMandatory: r.IsMandatory,
			Strength:    r.Strength,
			Class:       ClassifyEdge(r.IsCustom, src.IsCustom, dst.IsCustom),
			Width:       EdgeWidth(r.IsMandatory),
			Source:      src,
			Target:      dst,
		}
		g.Edges = append(g.Edges, e)

		g.countIncident(src, r.IsCustom)
		if dst != src {
			g.countIncident(dst, r.IsCustom)
			g.adj.SetEdge(simple.Edge{F: simple.Node(src.index), T: simple.Node(dst.index)})
		}
	}
	g.Metrics = computeMetrics(g.Edges, len(g.Connected))
	return g, nil
}

func (g *Graph) addNode(name string, role Role, meta map[string]Table) *Node {
	n := &Node{ID: name, Label: name, Role: role, index: len(g.nodes)}
	if t, ok := meta[name]; ok {
		if t.Label != "" {
			n.Label = t.Label
		}
		n.IsCustom = t.IsCustom
	}
	g.nodes = append(g.nodes, n)
	g.byID[name] = n
	g.adj.AddNode(simple.Node(n.index))
	return n
}

func (g *Graph) countIncident(n *Node, custom bool) {
	n.ReferenceCount++
	if custom {
		n.CustomReferenceCount++
	}
}

func computeMetrics(edges []*Edge, connected int) Metrics {
	m := Metrics{TotalConnections: len(edges)}
	for _, e := range edges {
		if e.IsCustom {
			m.CustomConnections++
		}
	}
	total := float64(m.TotalConnections)
	m.ComplexityScore = math.Min(100, total*5)
	if m.TotalConnections > 0 {
		m.CentralityScore = math.Min(100, total*10)
	}
	if connected > 0 {
		m.Clustering = total / float64(connected)
	}
	return m
}

// Nodes returns the center followed by the connected nodes.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Node returns the node with the given table name.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Neighbors returns the nodes sharing at least one edge with id, in index
// order. Self references are not neighbours.
func (g *Graph) Neighbors(id string) []*Node {
	n, ok := g.byID[id]
	if !ok {
		return nil
	}
	it := g.adj.From(int64(n.index))
	out := make([]*Node, 0, it.Len())
	for it.Next() {
		out = append(out, g.nodes[it.Node().ID()])
	}
	slices.SortFunc(out, func(a, b *Node) int { return a.index - b.index })
	return out
}

// Degree returns the number of distinct neighbours of id.
func (g *Graph) Degree(id string) int {
	n, ok := g.byID[id]
	if !ok {
		return 0
	}
	return g.adj.From(int64(n.index)).Len()
}
