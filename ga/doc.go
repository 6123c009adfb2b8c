// Package ga provides the genetic-algorithm baseline the colony is compared
// against: permutation individuals over the market ids, fitness equal to the
// feasible visit count (routing.FeasibleSubsequence), tournament selection,
// ordered crossover and index-shuffle mutation with a single-slot hall of
// fame. It is a sequential optimizer with no agent protocol involved.
package ga
