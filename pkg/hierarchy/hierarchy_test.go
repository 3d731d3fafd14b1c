package hierarchy

import (
	"testing"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
)

func sample() *Node {
	return &Node{Name: "root", Classification: Base, Children: []*Node{
		{Name: "account", Label: "Account", Classification: Extended, Children: []*Node{
			{Name: "account_note__c", Classification: Custom},
		}},
		{Name: "contact", Classification: Base},
		{Name: "invoice__c", Classification: Custom},
	}}
}

func TestMeasure(t *testing.T) {
	tests := []struct {
		name string
		root *Node
		want Stats
	}{
		{
			name: "Empty",
			root: nil,
			want: Stats{},
		},
		{
			name: "SingleNode",
			root: &Node{Name: "a", Classification: Base},
			want: Stats{NodeCount: 1, LevelWidth: 1, LevelCounts: []int{1}},
		},
		{
			name: "Sample",
			root: sample(),
			want: Stats{NodeCount: 5, MaxDepth: 2, LevelWidth: 3, LevelCounts: []int{1, 3, 1}, CustomCount: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Measure(tt.root)
			if got.NodeCount != tt.want.NodeCount {
				t.Errorf("NodeCount = %d, want %d", got.NodeCount, tt.want.NodeCount)
			}
			if got.MaxDepth != tt.want.MaxDepth {
				t.Errorf("MaxDepth = %d, want %d", got.MaxDepth, tt.want.MaxDepth)
			}
			if got.LevelWidth != tt.want.LevelWidth {
				t.Errorf("LevelWidth = %d, want %d", got.LevelWidth, tt.want.LevelWidth)
			}
			if got.CustomCount != tt.want.CustomCount {
				t.Errorf("CustomCount = %d, want %d", got.CustomCount, tt.want.CustomCount)
			}
			if len(got.LevelCounts) != len(tt.want.LevelCounts) {
				t.Fatalf("LevelCounts = %v, want %v", got.LevelCounts, tt.want.LevelCounts)
			}
			for i := range got.LevelCounts {
				if got.LevelCounts[i] != tt.want.LevelCounts[i] {
					t.Errorf("LevelCounts[%d] = %d, want %d", i, got.LevelCounts[i], tt.want.LevelCounts[i])
				}
			}
		})
	}
}

func TestWalkOrderAndDepth(t *testing.T) {
	var names []string
	depths := map[string]int{}
	Walk(sample(), func(n, _ *Node, depth int) bool {
		names = append(names, n.Name)
		depths[n.Name] = depth
		return true
	})

	want := []string{"root", "account", "account_note__c", "contact", "invoice__c"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
	if depths["account_note__c"] != 2 {
		t.Errorf("depth(account_note__c) = %d, want 2", depths["account_note__c"])
	}
}

func TestWalkSkipSubtree(t *testing.T) {
	count := 0
	Walk(sample(), func(n, _ *Node, _ int) bool {
		count++
		return n.Name != "account"
	})
	if count != 4 {
		t.Errorf("visited %d nodes, want 4", count)
	}
}

func TestValidate(t *testing.T) {
	shared := &Node{Name: "shared", Classification: Base}
	cyclic := &Node{Name: "loop", Classification: Base}
	cyclic.Children = []*Node{cyclic}

	tests := []struct {
		name    string
		root    *Node
		wantErr bool
	}{
		{"nil root", nil, false},
		{"valid", sample(), false},
		{"duplicate name", &Node{Name: "a", Classification: Base, Children: []*Node{{Name: "a", Classification: Base}}}, true},
		{"empty name", &Node{Name: "", Classification: Base}, true},
		{"unknown classification", &Node{Name: "a", Classification: "managed"}, true},
		{"shared subtree", &Node{Name: "r", Classification: Base, Children: []*Node{shared, shared}}, true},
		{"cycle", cyclic, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.root)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidHierarchy) {
				t.Errorf("code = %v, want %v", apperrors.GetCode(err), apperrors.ErrCodeInvalidHierarchy)
			}
		})
	}
}

func TestFind(t *testing.T) {
	root := sample()
	if n := Find(root, "account_note__c"); n == nil || n.Name != "account_note__c" {
		t.Errorf("Find(account_note__c) = %v", n)
	}
	if n := Find(root, "missing"); n != nil {
		t.Errorf("Find(missing) = %v, want nil", n)
	}
	if n := Find(nil, "root"); n != nil {
		t.Errorf("Find on nil root = %v, want nil", n)
	}
}

func TestDisplayLabel(t *testing.T) {
	if got := (&Node{Name: "a", Label: "Alpha"}).DisplayLabel(); got != "Alpha" {
		t.Errorf("DisplayLabel() = %q, want Alpha", got)
	}
	if got := (&Node{Name: "a"}).DisplayLabel(); got != "a" {
		t.Errorf("DisplayLabel() = %q, want a", got)
	}
}
