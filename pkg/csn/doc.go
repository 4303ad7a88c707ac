// Package csn implements the analytical core for conformation space
// networks: weighted directed graphs derived from molecular-dynamics
// transition counts, where nodes are conformational clusters and edge
// weights are transition probabilities.
//
// # The triple
//
// A [CSN] owns three coupled views of the same state set: the count
// matrix, the row-stochastic transition matrix derived from it, and the
// annotated directed graph. The transition matrix and graph are always
// regenerated from the counts - [CSN.Trim] is the only structural
// mutation, and it produces a fresh, consistent triple plus an index map
// rather than editing any view in place.
//
// # Conventions
//
// Rows index source states: T[i][j] is the probability of moving from
// state i to state j, and every row with outgoing counts sums to 1.
// Symmetrization is (C + Cᵀ)/2. The stationary distribution is the left
// eigenvector of T, computed as the right eigenvector of Tᵀ.
//
// # Analyses
//
// Two independent stationary-distribution methods are exposed:
// [SolveEigen] (eigendecomposition) and [SolveIterative] (power
// iteration). They serve as numerical cross-checks; on a well-conditioned
// irreducible matrix they agree to well under 1e-3 per entry.
//
// [Committors] performs absorbing-Markov-chain analysis: given a
// partition of states into basins, it computes the probability that each
// state is absorbed into each basin first, by making basin states
// absorbing and squaring the resulting sink matrix to its limit.
//
// # Failure modes
//
// Every analysis failure is typed and fatal to the operation that raised
// it: see [TrimmedEmptyError], [NoStationaryDistributionError],
// [ConvergenceError], [BasinOverlapError], [BasinIndexError], and
// [CommittorMassLeakError]. Local recovery is limited to floating-point
// cleanup (clipping negative residue, renormalizing sums); it is never a
// substitute for real convergence.
package csn
