/*
Package set implements sets of unique string members.

A member is stored as an empty marker record under (set, name, member). Add relies on the
atomic put-if-absent of the store, so a duplicate add reports false without any read
first. Every set also maintains a member index (see package index) so that Members,
Cardinality and the set algebra (Intersect, Union, Diff) never have to guess which
members might exist.
*/
package set
