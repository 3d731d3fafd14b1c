package graph_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/tablemap/pkg/force"
	"github.com/matzehuels/tablemap/pkg/graph"
	"github.com/matzehuels/tablemap/pkg/layout"
)

func ExampleBuild() {
	rels := []graph.Relationship{
		{SourceTable: "incident", TargetTable: "sys_user", FieldName: "caller_id", IsMandatory: true},
		{SourceTable: "incident", TargetTable: "u_vendor", FieldName: "u_vendor", IsCustom: true},
	}
	tables := []graph.Table{{Name: "u_vendor", Label: "Vendor", IsCustom: true}}

	g, err := graph.Build("incident", rels, tables)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, e := range g.Edges {
		fmt.Println(e.ID, e.Class, e.Width)
	}
	fmt.Printf("complexity=%.0f centrality=%.0f clustering=%.1f\n",
		g.Metrics.ComplexityScore, g.Metrics.CentralityScore, g.Metrics.Clustering)
	// Output:
	// incident-sys_user-caller_id edge-standard 3
	// incident-u_vendor-u_vendor edge-custom-strong 1
	// complexity=10 centrality=20 clustering=1.0
}

func ExampleEngine() {
	ctx := context.Background()
	g, _ := graph.Build("incident", []graph.Relationship{
		{SourceTable: "incident", TargetTable: "sys_user", FieldName: "caller_id"},
	}, nil)

	e, _ := graph.NewEngine(ctx, g, layout.Dimensions{Width: 800, Height: 600}, force.DefaultConfig())
	defer e.Stop(ctx, "example done")

	for e.Tick() {
		// one tick per animation frame
	}
	fmt.Printf("center at (%.0f, %.0f)\n", g.Center.X, g.Center.Y)
	// Output:
	// center at (400, 300)
}
