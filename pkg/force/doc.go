// Package force implements an iterative force-directed solver for small
// graphs.
//
// A [Simulation] owns an arena of [Body] records addressed by index. Four
// forces act on every tick:
//
//	link       spring toward LinkDistance along each [Link]
//	many-body  pairwise repulsion (Charge < 0) with a minimum distance of 1
//	center     weak pull toward the canvas centre, scaled by alpha
//	collide    pairwise overlap removal using each body's Radius
//
// The solver never runs on its own goroutine. The host calls [Simulation.Step]
// once per frame and must call [Simulation.Stop] when the owning view goes
// away; a stopped simulation never ticks again.
//
// # Heat
//
// Alpha starts at 1 and decays toward AlphaTarget each tick. Once it drops
// below AlphaMin the simulation is settled and Step returns false. Starting
// a drag raises AlphaTarget to DragAlphaTarget so the graph keeps reacting;
// ending the last drag lets it cool again.
//
// # Pins
//
// A body with a non-nil Pin is held at that position and its velocity is
// zeroed. Dragging pins a body to the pointer and releases it on drag end.
// Anchor bodies keep their pin for the simulation's lifetime: drag moves are
// ignored and drag end never releases them.
package force
