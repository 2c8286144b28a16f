// Package hash implements field-value maps (like Redis hashes) on top of a composite-key
// table. Field names are kept in a member index so Len, Fields and GetAll work without
// scanning the store.
package hash
