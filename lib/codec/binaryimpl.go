package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// NewBinaryCodec creates a new codec using a custom binary format
// optimized for speed and size
func NewBinaryCodec() ICodec {
	return &binaryCodecImpl{}
}

// binaryCodecImpl implements ICodec using a custom binary format:
// one flags byte followed by the present fields in flag order.
type binaryCodecImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasValue  byte = 1 << 0
	hasScore  byte = 1 << 1
	hasHead   byte = 1 << 2
	hasTail   byte = 1 << 3
	hasLen    byte = 1 << 4
	hasPos    byte = 1 << 5
	hasMember byte = 1 << 6
)

// sizeBytes returns the exact number of bytes needed to encode rec
func (b binaryCodecImpl) sizeBytes(rec Record) int {
	size := 1
	if rec.Value != nil {
		size += 4 + len(rec.Value)
	}
	if rec.Score != 0 {
		size += 8
	}
	if rec.Head != 0 {
		size += 8
	}
	if rec.Tail != 0 {
		size += 8
	}
	if rec.Len != 0 {
		size += 8
	}
	if rec.Pos != 0 {
		size += 8
	}
	if rec.Member != "" {
		size += 4 + len(rec.Member)
	}
	return size
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (b binaryCodecImpl) Encode(rec Record) ([]byte, error) {
	result := make([]byte, 1, b.sizeBytes(rec))
	var flags byte

	if rec.Value != nil {
		flags |= hasValue
		result = binary.BigEndian.AppendUint32(result, uint32(len(rec.Value)))
		result = append(result, rec.Value...)
	}
	if rec.Score != 0 {
		flags |= hasScore
		result = binary.BigEndian.AppendUint64(result, math.Float64bits(rec.Score))
	}
	if rec.Head != 0 {
		flags |= hasHead
		result = binary.BigEndian.AppendUint64(result, rec.Head)
	}
	if rec.Tail != 0 {
		flags |= hasTail
		result = binary.BigEndian.AppendUint64(result, rec.Tail)
	}
	if rec.Len != 0 {
		flags |= hasLen
		result = binary.BigEndian.AppendUint64(result, rec.Len)
	}
	if rec.Pos != 0 {
		flags |= hasPos
		result = binary.BigEndian.AppendUint64(result, uint64(rec.Pos))
	}
	if rec.Member != "" {
		flags |= hasMember
		result = binary.BigEndian.AppendUint32(result, uint32(len(rec.Member)))
		result = append(result, rec.Member...)
	}

	// Set flags byte after knowing which fields are present
	result[0] = flags
	return result, nil
}

func (b binaryCodecImpl) Decode(data []byte, rec *Record) error {
	if len(data) < 1 {
		return fmt.Errorf("data too short for record header")
	}
	*rec = Record{}
	flags := data[0]
	pos := 1

	readUint64 := func(field string) (uint64, error) {
		if pos+8 > len(data) {
			return 0, fmt.Errorf("data too short for %s", field)
		}
		v := binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
		return v, nil
	}
	readBytes := func(field string) ([]byte, error) {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("data too short for %s length", field)
		}
		n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+n > len(data) {
			return nil, fmt.Errorf("data too short for %s data", field)
		}
		v := make([]byte, n)
		copy(v, data[pos:pos+n])
		pos += n
		return v, nil
	}

	var err error
	if flags&hasValue != 0 {
		if rec.Value, err = readBytes("value"); err != nil {
			return err
		}
	}
	if flags&hasScore != 0 {
		bits, err := readUint64("score")
		if err != nil {
			return err
		}
		rec.Score = math.Float64frombits(bits)
	}
	if flags&hasHead != 0 {
		if rec.Head, err = readUint64("head"); err != nil {
			return err
		}
	}
	if flags&hasTail != 0 {
		if rec.Tail, err = readUint64("tail"); err != nil {
			return err
		}
	}
	if flags&hasLen != 0 {
		if rec.Len, err = readUint64("len"); err != nil {
			return err
		}
	}
	if flags&hasPos != 0 {
		v, err := readUint64("pos")
		if err != nil {
			return err
		}
		rec.Pos = int64(v)
	}
	if flags&hasMember != 0 {
		member, err := readBytes("member")
		if err != nil {
			return err
		}
		rec.Member = string(member)
	}

	if pos != len(data) {
		return fmt.Errorf("%d trailing bytes after record", len(data)-pos)
	}
	return nil
}

func (b binaryCodecImpl) Name() string { return "binary" }
