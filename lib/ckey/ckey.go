// Package ckey encodes composite keys (kind, collection name, secondary key) into the
// flat string keys of a store.IStore.
//
// Layout: kind byte | uvarint(len(name)) | name | tag byte | payload
//
// Int payloads are eight bytes big endian with the sign bit flipped, so the byte order of
// two encoded keys that only differ in an int secondary key equals their numeric order.
// The encoding is injective: two different keys never share an encoding.
package ckey

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
)

// Kind is the namespace of a key. Every structure owns its own kinds so that
// collections of different types never collide even if they share a name.
type Kind byte

const (
	KindListItem Kind = iota + 1
	KindListMeta
	KindQueueItem
	KindQueueMeta
	KindSetMember
	KindSetIndex
	KindZSetMember
	KindZSetIndex
	KindHashField
	KindHashIndex
	KindLock
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindListItem:
		return "list"
	case KindListMeta:
		return "list-meta"
	case KindQueueItem:
		return "queue"
	case KindQueueMeta:
		return "queue-meta"
	case KindSetMember:
		return "set"
	case KindSetIndex:
		return "set-index"
	case KindZSetMember:
		return "zset"
	case KindZSetIndex:
		return "zset-index"
	case KindHashField:
		return "hash"
	case KindHashIndex:
		return "hash-index"
	case KindLock:
		return "lock"
	case KindValue:
		return "kv"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// SubType tags the secondary key
type SubType byte

const (
	SubNone SubType = iota
	SubInt
	SubStr
)

// Sub is the typed secondary key of a composite key
type Sub struct {
	Type SubType
	Int  int64
	Str  string
}

// None is the empty secondary key, used for per-collection records
func None() Sub { return Sub{Type: SubNone} }

// Int creates an integer secondary key
func Int(i int64) Sub { return Sub{Type: SubInt, Int: i} }

// Str creates a string secondary key
func Str(s string) Sub { return Sub{Type: SubStr, Str: s} }

func (s Sub) String() string {
	switch s.Type {
	case SubInt:
		return strconv.FormatInt(s.Int, 10)
	case SubStr:
		return strconv.Quote(s.Str)
	default:
		return "-"
	}
}

// Key is a composite key
type Key struct {
	Kind Kind
	Name string
	Sub  Sub
}

// New creates a composite key
func New(kind Kind, name string, sub Sub) Key {
	return Key{Kind: kind, Name: name, Sub: sub}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%q/%s", k.Kind, k.Name, k.Sub)
}

// Lock returns the key of the lock guarding the collection of k
func (k Key) Lock() Key {
	return Key{Kind: KindLock, Name: string([]byte{byte(k.Kind)}) + k.Name}
}

const signBit = 1 << 63

// Encode returns the flat store key of k
func (k Key) Encode() string {
	size := 1 + binary.MaxVarintLen64 + len(k.Name) + 1
	switch k.Sub.Type {
	case SubInt:
		size += 8
	case SubStr:
		size += len(k.Sub.Str)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, byte(k.Kind))
	buf = binary.AppendUvarint(buf, uint64(len(k.Name)))
	buf = append(buf, k.Name...)
	buf = append(buf, byte(k.Sub.Type))

	switch k.Sub.Type {
	case SubInt:
		buf = binary.BigEndian.AppendUint64(buf, uint64(k.Sub.Int)^signBit)
	case SubStr:
		buf = append(buf, k.Sub.Str...)
	}
	return string(buf)
}

// ErrMalformed is returned by Decode for input that Encode cannot have produced
var ErrMalformed = errors.New("malformed composite key")

// Decode parses a flat store key produced by Encode
func Decode(s string) (Key, error) {
	data := []byte(s)
	if len(data) < 1 {
		return Key{}, ErrMalformed
	}
	k := Key{Kind: Kind(data[0])}
	data = data[1:]

	nameLen, n := binary.Uvarint(data)
	if n <= 0 || uint64(len(data)-n) < nameLen+1 {
		return Key{}, ErrMalformed
	}
	data = data[n:]
	k.Name = string(data[:nameLen])
	data = data[nameLen:]

	k.Sub.Type = SubType(data[0])
	data = data[1:]

	switch k.Sub.Type {
	case SubNone:
		if len(data) != 0 {
			return Key{}, ErrMalformed
		}
	case SubInt:
		if len(data) != 8 {
			return Key{}, ErrMalformed
		}
		k.Sub.Int = int64(binary.BigEndian.Uint64(data) ^ signBit)
	case SubStr:
		k.Sub.Str = string(data)
	default:
		return Key{}, fmt.Errorf("%w: unknown sub type %d", ErrMalformed, k.Sub.Type)
	}
	return k, nil
}
