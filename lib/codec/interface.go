package codec

import "fmt"

// Record is the value stored under every composite key.
// Each structure only fills the fields it needs, all others stay zero.
type Record struct {
	Value  []byte  `json:"value,omitempty"`  // element / field value
	Score  float64 `json:"score,omitempty"`  // zset score
	Head   uint64  `json:"head,omitempty"`   // queue head sequence
	Tail   uint64  `json:"tail,omitempty"`   // queue tail sequence
	Len    uint64  `json:"len,omitempty"`    // list length, index length
	Pos    int64   `json:"pos,omitempty"`    // slot of a member in its index
	Member string  `json:"member,omitempty"` // member stored in an index slot
}

// ICodec is the interface for all record codecs
type ICodec interface {
	// Encode serializes a Record into a byte array
	Encode(rec Record) ([]byte, error)
	// Decode deserializes a byte array into rec.
	// Fields not present in the data are reset to their zero value.
	Decode(b []byte, rec *Record) error
	// Name returns the name the codec is selected by
	Name() string
}

// ByName returns the codec registered under name (json, gob, binary)
func ByName(name string) (ICodec, error) {
	switch name {
	case "json":
		return NewJSONCodec(), nil
	case "gob":
		return NewGOBCodec(), nil
	case "binary", "":
		return NewBinaryCodec(), nil
	default:
		return nil, fmt.Errorf("unknown codec %q (expected one of: json, gob, binary)", name)
	}
}
