// Package layout implements the deterministic force-directed layout
// engine. Given a graph and canvas bounds it produces one final position
// per node by running a fixed-budget relaxation:
//
//  1. Seeded placement: each node's initial polar coordinates are derived
//     from a hash of its ID, not system randomness, so reopening the same
//     graph reproduces the same arrangement bit for bit.
//  2. Iterative relaxation under a cooling schedule: pairwise repulsion
//     scaled against the pair's required minimum separation, Hooke-spring
//     attraction along edges, mass-biased centering gravity, and a seeded
//     perpendicular jitter that breaks up near-collinear pairs.
//  3. Bounded collision resolution: violating pairs are pushed apart along
//     their connecting line, split by inverse mass, for a fixed number of
//     passes.
//
// The engine always terminates within its iteration budget and always
// returns a position for every node. Residual overlaps after the pass
// budget are reported in [Result], never raised as errors. Relaxation is
// synchronous and blocking; large graphs stall the caller for the full
// budget, which is a documented tradeoff rather than a bug.
package layout
