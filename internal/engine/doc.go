// Package engine implements the glyphloop session loop.
//
// ARCHITECTURE:
//
// Single-Threaded Loop:
// One goroutine runs every cycle end to end. A cycle is:
//
//  1. Cycles++ and, every DashboardEvery cycles, a dashboard redraw
//  2. Predictor selects the category
//  3. For each of the 14 steps: render, append to the chain, bump
//     counters, persist, sample load, sleep
//
// The sleep between frames is the only suspension point. Cancelling the
// context (the CLI does this on SIGINT/SIGTERM) ends Run at the next sleep;
// a frame that has started always completes, including its store write.
//
// State:
// Session counters live in one Session value owned by the Engine. Nothing is
// global. Random choices come from the Predictor and Monitor sources, and
// wall time from an injected clock, so a seeded run with a fixed clock is
// fully reproducible.
//
// Shutdown:
// Run returns nil on cancellation or when the frame limit is reached. The
// caller then takes Snapshot once and writes it.
package engine
