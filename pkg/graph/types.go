package graph

// Relationship is one reference field from SourceTable to TargetTable.
type Relationship struct {
	SourceTable string  `json:"sourceTable"`
	TargetTable string  `json:"targetTable"`
	FieldName   string  `json:"fieldName"`
	FieldLabel  string  `json:"fieldLabel,omitempty"`
	IsCustom    bool    `json:"isCustom"`
	IsMandatory bool    `json:"isMandatory"`
	Strength    float64 `json:"relationshipStrength,omitempty"`
}

// Table is the metadata lookup entry for a table.
type Table struct {
	Name     string `json:"name"`
	Label    string `json:"label,omitempty"`
	IsCustom bool   `json:"isCustom"`
}

// Role tells the focused table apart from its neighbours.
type Role string

const (
	RoleCenter    Role = "center"
	RoleConnected Role = "connected"
)

// Node is a table in the relationship graph. X and Y are owned by the
// simulation; FX and FY are set while the node is pinned.
type Node struct {
	ID                   string   `json:"id"`
	Label                string   `json:"label"`
	Role                 Role     `json:"role"`
	ReferenceCount       int      `json:"referenceCount"`
	CustomReferenceCount int      `json:"customReferenceCount"`
	IsCustom             bool     `json:"isCustom"`
	X                    float64  `json:"x"`
	Y                    float64  `json:"y"`
	FX                   *float64 `json:"fx,omitempty"`
	FY                   *float64 `json:"fy,omitempty"`

	// IsFiltered is set by the search overlay for non-matching nodes.
	IsFiltered bool `json:"-"`

	index int
}

// Index returns the node's position in Graph.Nodes and in the simulation
// arena.
func (n *Node) Index() int { return n.index }

// IsCenter reports whether n is the focused table.
func (n *Node) IsCenter() bool { return n.Role == RoleCenter }

// Pinned reports whether the node is held at (FX, FY).
func (n *Node) Pinned() bool { return n.FX != nil && n.FY != nil }

// EdgeClass is the rendered color class of an edge.
type EdgeClass string

const (
	EdgeCustomStrong EdgeClass = "edge-custom-strong"
	EdgeCustom       EdgeClass = "edge-custom"
	EdgeStandard     EdgeClass = "edge-standard"
)

// Edge widths.
const (
	MandatoryWidth = 3.0
	OptionalWidth  = 1.0
)

// Edge is a relationship resolved against the graph's node set.
type Edge struct {
	ID          string    `json:"id"`
	SourceTable string    `json:"sourceTable"`
	TargetTable string    `json:"targetTable"`
	FieldName   string    `json:"fieldName"`
	FieldLabel  string    `json:"fieldLabel,omitempty"`
	IsCustom    bool      `json:"isCustom"`
	IsMandatory bool      `json:"isMandatory"`
	Strength    float64   `json:"strength,omitempty"`
	Class       EdgeClass `json:"class"`
	Width       float64   `json:"width"`

	Source *Node `json:"-"`
	Target *Node `json:"-"`

	// Rendered endpoints, refreshed every tick.
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Metrics summarises the focused table's neighbourhood.
type Metrics struct {
	TotalConnections  int     `json:"totalConnections"`
	CustomConnections int     `json:"customConnections"`
	ComplexityScore   float64 `json:"complexityScore"`
	CentralityScore   float64 `json:"centralityScore"`
	Clustering        float64 `json:"clusteringCoefficient"`
}

// ClassifyEdge returns the color class for a relationship.
func ClassifyEdge(customField, sourceCustom, targetCustom bool) EdgeClass {
	switch {
	case customField && (sourceCustom || targetCustom):
		return EdgeCustomStrong
	case customField:
		return EdgeCustom
	default:
		return EdgeStandard
	}
}

// EdgeWidth returns the stroke width for a relationship.
func EdgeWidth(mandatory bool) float64 {
	if mandatory {
		return MandatoryWidth
	}
	return OptionalWidth
}
