package io

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/goccy/go-json"

	apperrors "github.com/matzehuels/tablemap/pkg/errors"
	"github.com/matzehuels/tablemap/pkg/graph"
	"github.com/matzehuels/tablemap/pkg/hierarchy"
)

// Bundle is the input of the focused-table view.
type Bundle struct {
	Center        string               `json:"center"`
	Tables        []graph.Table        `json:"tables"`
	Relationships []graph.Relationship `json:"relationships"`
}

// ReadHierarchy decodes and validates a hierarchy from r. An empty document
// (JSON null) yields a nil root. ReadHierarchy does not close r.
func ReadHierarchy(r io.Reader) (*hierarchy.Node, error) {
	var root *hierarchy.Node
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode hierarchy")
	}
	if err := hierarchy.Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

// ImportHierarchy reads a hierarchy file.
func ImportHierarchy(path string) (*hierarchy.Node, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	root, err := ReadHierarchy(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// ReadBundle decodes a relationship bundle from r. The center may be
// overridden by the caller; it is not required here.
func ReadBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode relationship bundle")
	}
	for i, rel := range b.Relationships {
		if rel.SourceTable == "" || rel.TargetTable == "" {
			return nil, apperrors.New(apperrors.ErrCodeInvalidRelationship, "relationship %d: sourceTable and targetTable are required", i)
		}
	}
	return &b, nil
}

// ImportBundle reads a relationship bundle file.
func ImportBundle(path string) (*Bundle, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := ReadBundle(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func open(path string) (*os.File, error) {
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
