package filter

import (
	"testing"

	"github.com/matzehuels/tablemap/pkg/graph"
	"github.com/matzehuels/tablemap/pkg/hierarchy"
)

func tree() *hierarchy.Node {
	return &hierarchy.Node{Name: "task", Label: "Task", Classification: hierarchy.Base, Children: []*hierarchy.Node{
		{Name: "incident", Label: "Incident", Classification: hierarchy.Extended},
		{Name: "problem", Label: "Problem", Classification: hierarchy.Extended},
		{Name: "u_straße", Label: "Street Work", Classification: hierarchy.Custom},
	}}
}

func TestHierarchy(t *testing.T) {
	tests := []struct {
		term     string
		want     int
		filtered []string
	}{
		{"", 4, nil},
		{"   ", 4, nil},
		{"INC", 1, []string{"task", "problem", "u_straße"}},
		{"task", 1, []string{"incident", "problem", "u_straße"}},
		{"street", 1, []string{"task", "incident", "problem"}},
		{"STRASSE", 1, []string{"task", "incident", "problem"}},
		{"zzz", 0, []string{"task", "incident", "problem", "u_straße"}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			root := tree()
			if got := Hierarchy(root, tt.term); got != tt.want {
				t.Errorf("Hierarchy(%q) = %d, want %d", tt.term, got, tt.want)
			}
			want := map[string]bool{}
			for _, n := range tt.filtered {
				want[n] = true
			}
			for _, n := range hierarchy.Flatten(root) {
				if n.IsFiltered != want[n.Name] {
					t.Errorf("%s IsFiltered = %v, want %v", n.Name, n.IsFiltered, want[n.Name])
				}
			}
		})
	}
}

func TestHierarchyClearsPreviousMarks(t *testing.T) {
	root := tree()
	Hierarchy(root, "zzz")
	if got := Hierarchy(root, ""); got != 4 {
		t.Errorf("count = %d, want 4", got)
	}
	for _, n := range hierarchy.Flatten(root) {
		if n.IsFiltered {
			t.Errorf("%s still filtered", n.Name)
		}
	}
	if got := Hierarchy(nil, "x"); got != 0 {
		t.Errorf("Hierarchy(nil) = %d, want 0", got)
	}
}

func TestNodes(t *testing.T) {
	g, err := graph.Build("incident", []graph.Relationship{
		{SourceTable: "incident", TargetTable: "sys_user", FieldName: "caller_id"},
		{SourceTable: "incident", TargetTable: "cmdb_ci", FieldName: "cmdb_ci"},
	}, []graph.Table{{Name: "sys_user", Label: "User"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := Nodes(g.Nodes(), "user"); got != 1 {
		t.Errorf("Nodes(user) = %d, want 1", got)
	}
	if n, _ := g.Node("cmdb_ci"); !n.IsFiltered {
		t.Error("cmdb_ci should be filtered")
	}
	if got := Nodes(g.Nodes(), ""); got != 3 {
		t.Errorf("Nodes(\"\") = %d, want 3", got)
	}
}
