// Package graph builds the relationship graph of one focused table and keeps
// it live under a force simulation.
//
// # Model
//
// [Build] turns relationship records and table metadata into a [Graph]:
//
//   - the center node (the focused table)
//   - one connected node per other table appearing in any relationship
//   - one [Edge] per relationship, with id "source-target-field"
//
// Edge endpoints are resolved to *Node once, at build time. A changed node
// set means a new Build, never a patch.
//
// # Edge Classes
//
// Edges are classified by whether the field is custom and whether either
// endpoint table is custom:
//
//	custom field, custom endpoint   edge-custom-strong
//	custom field only               edge-custom
//	otherwise                       edge-standard
//
// Mandatory relationships are drawn 3 units wide, optional ones 1 unit.
//
// # Metrics
//
// [Metrics] summarises the neighbourhood. Every ratio is guarded so a table
// without relationships yields zeros rather than NaN.
//
// # Live Engine
//
// [Engine] binds a Graph to a force.Simulation. The center is pinned at the
// canvas centroid for the engine's lifetime. Each [Engine.Tick] advances the
// simulation one step and copies every node position and edge endpoint back
// into the model; that is the per-frame update boundary. Drag calls go
// through the simulation's pin state, and zoom/pan only changes the engine's
// viewport.Zoom.
//
// Engines must be stopped with [Engine.Stop] when their view goes away.
package graph
