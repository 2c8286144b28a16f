// Package zset implements sorted sets: members with a float64 score, ordered by score.
//
// Only the score is stored per member. Rank, RevRank and Range load all members through
// the member index and sort them under the set's lock, so they cost O(N log N).
// Members with equal scores are ordered lexicographically.
package zset
