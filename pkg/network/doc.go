// Package network provides the directed, annotated state graph owned by a
// conformation space network.
//
// # Overview
//
// A [Network] holds one node per conformational state, indexed 0..N-1 to
// match the count and transition matrices it accompanies, and one weighted
// edge per non-zero transition probability. Nodes carry an [Attributes]
// record that accumulates computed quantities over the analysis: outgoing
// counts at construction, stationary weights from the steady-state solvers,
// committor probabilities and a display color from the committor analysis.
//
// # Index spaces
//
// Trimming produces a fresh network relabeled 0..M-1. Each node keeps its
// untrimmed index in [Attributes.OrigIndex], which is the only sanctioned
// way to translate trimmed results back to the original state space.
//
// # Concurrency
//
// Networks are not safe for concurrent use. Callers must synchronize if
// multiple goroutines read or modify the same network.
package network
