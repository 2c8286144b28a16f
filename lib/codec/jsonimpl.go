package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// NewJSONCodec creates a new codec using json encoding
func NewJSONCodec() ICodec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements the ICodec interface using json encoding
type jsonCodecImpl struct {
}

// jsonRecord is the wire form of a Record. Member is carried as bytes (base64 in json)
// because json strings cannot hold invalid UTF-8, and Score is carried as a string
// because json numbers cannot hold +Inf and -Inf.
type jsonRecord struct {
	Value  []byte `json:"value,omitempty"`
	Score  string `json:"score,omitempty"`
	Head   uint64 `json:"head,omitempty"`
	Tail   uint64 `json:"tail,omitempty"`
	Len    uint64 `json:"len,omitempty"`
	Pos    int64  `json:"pos,omitempty"`
	Member []byte `json:"member,omitempty"`
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (j jsonCodecImpl) Encode(rec Record) ([]byte, error) {
	wire := jsonRecord{
		Value: rec.Value,
		Head:  rec.Head,
		Tail:  rec.Tail,
		Len:   rec.Len,
		Pos:   rec.Pos,
	}
	if rec.Score != 0 {
		wire.Score = strconv.FormatFloat(rec.Score, 'g', -1, 64)
	}
	if rec.Member != "" {
		wire.Member = []byte(rec.Member)
	}
	return json.Marshal(wire)
}

func (j jsonCodecImpl) Decode(b []byte, rec *Record) error {
	*rec = Record{}

	var wire jsonRecord
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	if wire.Score != "" {
		score, err := strconv.ParseFloat(wire.Score, 64)
		if err != nil {
			return fmt.Errorf("invalid score %q: %w", wire.Score, err)
		}
		rec.Score = score
	}
	rec.Value = wire.Value
	rec.Head = wire.Head
	rec.Tail = wire.Tail
	rec.Len = wire.Len
	rec.Pos = wire.Pos
	rec.Member = string(wire.Member)
	return nil
}

func (j jsonCodecImpl) Name() string { return "json" }
