package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
	"github.com/matzehuels/tablemap/pkg/layout"
)

const sampleHierarchy = `{
  "name": "task",
  "label": "Task",
  "classification": "base",
  "children": [
    {"name": "incident", "label": "Incident", "classification": "extended", "customFieldCount": 12},
    {"name": "u_vendor_task", "classification": "custom", "recordCount": 340}
  ]
}`

func TestReadHierarchy(t *testing.T) {
	root, err := ReadHierarchy(strings.NewReader(sampleHierarchy))
	if err != nil {
		t.Fatalf("ReadHierarchy: %v", err)
	}
	if root.Name != "task" || len(root.Children) != 2 {
		t.Fatalf("root = %+v", root)
	}
	inc := root.Children[0]
	if inc.CustomFieldCount == nil || *inc.CustomFieldCount != 12 || inc.RecordCount != nil {
		t.Errorf("incident counts = %v/%v", inc.CustomFieldCount, inc.RecordCount)
	}
	if !root.Children[1].IsCustom() {
		t.Error("u_vendor_task should be custom")
	}
}

func TestReadHierarchyErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code apperrors.Code
	}{
		{"malformed", `{"name":`, apperrors.ErrCodeInvalidInput},
		{"bad classification", `{"name":"a","classification":"weird"}`, apperrors.ErrCodeInvalidHierarchy},
		{"duplicate", `{"name":"a","classification":"base","children":[{"name":"a","classification":"base"}]}`, apperrors.ErrCodeInvalidHierarchy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHierarchy(strings.NewReader(tt.in))
			if !apperrors.Is(err, tt.code) {
				t.Errorf("ReadHierarchy = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReadHierarchyNull(t *testing.T) {
	root, err := ReadHierarchy(strings.NewReader("null"))
	if err != nil || root != nil {
		t.Errorf("ReadHierarchy(null) = %v, %v, want nil, nil", root, err)
	}
}

func TestImportHierarchyMissingFile(t *testing.T) {
	_, err := ImportHierarchy(filepath.Join(t.TempDir(), "missing.json"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("ImportHierarchy = %v, want FILE_NOT_FOUND", err)
	}
}

func TestImportBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rels.json")
	data := `{
	  "center": "incident",
	  "tables": [{"name": "u_vendor", "label": "Vendor", "isCustom": true}],
	  "relationships": [
	    {"sourceTable": "incident", "targetTable": "u_vendor", "fieldName": "u_vendor",
	     "isCustom": true, "isMandatory": true, "relationshipStrength": 0.8}
	  ]
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := ImportBundle(path)
	if err != nil {
		t.Fatalf("ImportBundle: %v", err)
	}
	if b.Center != "incident" || len(b.Tables) != 1 || len(b.Relationships) != 1 {
		t.Fatalf("bundle = %+v", b)
	}
	r := b.Relationships[0]
	if !r.IsCustom || !r.IsMandatory || r.Strength != 0.8 {
		t.Errorf("relationship = %+v", r)
	}

	_, err = ReadBundle(strings.NewReader(`{"relationships":[{"sourceTable":"a"}]}`))
	if !apperrors.Is(err, apperrors.ErrCodeInvalidRelationship) {
		t.Errorf("ReadBundle(missing target) = %v, want INVALID_RELATIONSHIP", err)
	}
}

func TestWriteLayout(t *testing.T) {
	root, err := ReadHierarchy(strings.NewReader(sampleHierarchy))
	if err != nil {
		t.Fatal(err)
	}
	res, err := layout.Tree{}.Calculate(root, layout.Dimensions{Width: 800, Height: 600}, layout.ModeAuto, nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteLayout(res, &buf); err != nil {
		t.Fatalf("WriteLayout: %v", err)
	}
	var doc struct {
		Tier  string `json:"performanceTier"`
		Nodes []struct {
			Name   string `json:"name"`
			Label  string `json:"label"`
			Parent string `json:"parent"`
		} `json:"nodes"`
		Links []struct {
			Source string `json:"source"`
			Target string `json:"target"`
		} `json:"links"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Tier != "normal" || len(doc.Nodes) != 3 || len(doc.Links) != 2 {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.Nodes[2].Label != "u_vendor_task" || doc.Nodes[2].Parent != "task" {
		t.Errorf("node 2 = %+v", doc.Nodes[2])
	}
	if doc.Links[0].Source != "task" || doc.Links[0].Target != "incident" {
		t.Errorf("link 0 = %+v", doc.Links[0])
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := ExportLayout(res, path); err != nil {
		t.Fatalf("ExportLayout: %v", err)
	}
	if st, err := os.Stat(path); err != nil || st.Size() == 0 {
		t.Errorf("exported file missing or empty: %v", err)
	}
}
