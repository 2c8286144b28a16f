package internal

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/dStruct/lib/db"
)

// CommandType defines the possible operations for the state machine.
type CommandType uint8

const (
	CommandTSet        CommandType = iota // Insert or update an entry.
	CommandTSetIfUnset                    // Insert an entry if it does not exist, optionally with a lease.
	CommandTDelete                        // Delete an entry.
)

func (ct CommandType) String() string {
	switch ct {
	case CommandTSet:
		return "Set"
	case CommandTSetIfUnset:
		return "SetIfUnset"
	case CommandTDelete:
		return "Delete"
	default:
		return fmt.Sprintf("Unknown(%d)", ct)
	}
}

// ToDBFeature converts a CommandType to the corresponding db.Feature.
// This can be used for checking if the database supports a certain operation.
func (ct CommandType) ToDBFeature() (db.Feature, error) {
	switch ct {
	case CommandTSet:
		return db.FeatureSet, nil
	case CommandTSetIfUnset:
		return db.FeatureSetIfUnset, nil
	case CommandTDelete:
		return db.FeatureDelete, nil
	default:
		return 0, fmt.Errorf("unknown command type %d", ct)
	}
}

// headerSize is Type + DeleteIn + KeyLen
const headerSize = 1 + 8 + 4

// Command represents a command to be executed by the state machine (a single entry in the raft log)
type Command struct {
	Type     CommandType
	Key      string
	DeleteIn uint64
	Value    []byte
}

// SizeBytes returns the exact number of bytes needed to serialize this command
func (command *Command) SizeBytes() int {
	return headerSize + len(command.Key) + len(command.Value)
}

// Serialize serializes a command into a byte array with the format:
// 1 byte for operation type,
// 8 bytes for deleteIn,
// 4 bytes for key length (big endian),
// N bytes for key data,
// N bytes for value data (optional)
func (command *Command) Serialize() []byte {
	result := make([]byte, command.SizeBytes())

	result[0] = byte(command.Type)
	binary.BigEndian.PutUint64(result[1:9], command.DeleteIn)
	binary.BigEndian.PutUint32(result[9:headerSize], uint32(len(command.Key)))

	n := copy(result[headerSize:], command.Key)
	copy(result[headerSize+n:], command.Value)

	return result
}

// Deserialize extracts all Command fields from a byte array.
func (command *Command) Deserialize(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("data too short for command")
	}

	command.Type = CommandType(data[0])
	command.DeleteIn = binary.BigEndian.Uint64(data[1:9])
	keyLen := int(binary.BigEndian.Uint32(data[9:headerSize]))

	if len(data) < headerSize+keyLen {
		return fmt.Errorf("data too short for key of length %d", keyLen)
	}
	command.Key = string(data[headerSize : headerSize+keyLen])

	if rest := data[headerSize+keyLen:]; len(rest) > 0 {
		command.Value = make([]byte, len(rest))
		copy(command.Value, rest)
	} else {
		command.Value = nil
	}

	return nil
}

// --------------------------------------------------------------------------
// Results
// --------------------------------------------------------------------------

// EncodeFlag encodes the boolean outcome of SetIfUnset and Delete for sm.Result.Data
func EncodeFlag(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

// DecodeFlag is the inverse of EncodeFlag
func DecodeFlag(data []byte) bool {
	return len(data) == 1 && data[0] == 1
}
