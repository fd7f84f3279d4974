// Package diagram wires blocks into a block diagram and simulates it.
//
// A [Diagram] owns an ordered list of blocks, summing junctions and external
// inputs, plus the live signal table connecting them. Each tick evaluates,
// in this order:
//
//  1. every external input at the current time
//  2. every summing junction, in definition order, from whatever the signal
//     table currently holds
//  3. every block, in list order, followed by an explicit Euler update of
//     its state
//
// No topological sort is performed. A junction that reads the output of a
// block listed later sees that block's value from the previous tick, which
// is how a feedback loop is closed.
//
// # Example
//
//	gc, _ := block.NewPI("Gc", "e", "u", 1, 1)
//	g, _ := block.NewLTI("G", "u", "yu", []float64{1}, []float64{1, 1}, 0)
//	d, _ := diagram.NewSimpleControl(gc, g)
//	result, _ := d.Simulate(ts)
//	y := result.Series["y"]
//
// Diagram instances are NOT safe for concurrent use.
package diagram
