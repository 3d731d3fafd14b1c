package layout

import "github.com/matzehuels/tablemap/pkg/hierarchy"

// Warnings recorded by the sunburst stub.
const (
	WarnSunburstStub   = "sunburst layout is not implemented; using tree geometry"
	WarnMissingRadial  = "radial settings missing; using defaults"
	WarnUnknownKindFmt = "unknown layout type %q; using tree"
	WarnUnknownModeFmt = "unknown performance mode %q; using auto"
)

// Sunburst is a named radial variant without its own placement. It returns
// the tree geometry unchanged and says so in Result.Warnings.
type Sunburst struct {
	Tree Tree
}

// Kind implements Algorithm.
func (Sunburst) Kind() Kind { return KindSunburst }

// Calculate implements Algorithm.
func (s Sunburst) Calculate(root *hierarchy.Node, dims Dimensions, mode PerformanceMode, radial *RadialSettings) (*Result, error) {
	res, err := s.Tree.Calculate(root, dims, mode, radial)
	if err != nil {
		return nil, err
	}
	res.Kind = KindSunburst
	res.Warnings = append(res.Warnings, WarnSunburstStub)
	if radial == nil {
		res.Warnings = append(res.Warnings, WarnMissingRadial)
	}
	return res, nil
}
