// Package codec serializes the records stored by the composite-key store.
//
// Three interchangeable codecs implement ICodec:
//
//   - binary (default): one flags byte telling which fields are present, followed by
//     the present fields. Zero fields take no space, so typical records are a few bytes.
//   - json: encoding/json, useful when the stored values should stay readable. Scores
//     are written as strings so +Inf and -Inf survive, members as base64 bytes.
//   - gob: encoding/gob.
//
// A store must always be read with the codec it was written with.
package codec
