package internal

import (
	"bytes"
	"testing"

	"github.com/ValentinKolb/dStruct/lib/db"
)

// TestSizeBytes tests the SizeBytes method
func TestSizeBytes(t *testing.T) {
	tests := []struct {
		name     string
		command  Command
		expected int
	}{
		{
			name:     "Command with key and value",
			command:  Command{Type: CommandTSetIfUnset, Key: "testkey", DeleteIn: 200, Value: []byte("testvalue")},
			expected: 1 + 8 + 4 + 7 + 9,
		},
		{
			name:     "Command with empty key and no value",
			command:  Command{Type: CommandTDelete},
			expected: 1 + 8 + 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if size := tt.command.SizeBytes(); size != tt.expected {
				t.Errorf("SizeBytes() = %v, want %v", size, tt.expected)
			}
		})
	}
}

// TestSerializeDeserialize tests both Serialize and Deserialize methods
func TestSerializeDeserialize(t *testing.T) {
	tests := []struct {
		name    string
		command Command
	}{
		{"Set with value", Command{Type: CommandTSet, Key: "testkey", Value: []byte("testvalue")}},
		{"Delete without value", Command{Type: CommandTDelete, Key: "testkey"}},
		{"Lease with max deleteIn", Command{Type: CommandTSetIfUnset, Key: "lock", DeleteIn: ^uint64(0), Value: []byte("owner")}},
		{"Binary key and value", Command{Type: CommandTSet, Key: string([]byte{0, 1, 0xff}), Value: []byte{0, 1, 2, 254, 255}}},
		{"Unicode key", Command{Type: CommandTSet, Key: "你好世界", Value: []byte("v")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Command
			if err := got.Deserialize(tt.command.Serialize()); err != nil {
				t.Fatalf("Deserialize() error = %v", err)
			}
			if got.Type != tt.command.Type || got.Key != tt.command.Key || got.DeleteIn != tt.command.DeleteIn {
				t.Errorf("Deserialize() = %+v, want %+v", got, tt.command)
			}
			if !bytes.Equal(got.Value, tt.command.Value) {
				t.Errorf("Value = %v, want %v", got.Value, tt.command.Value)
			}
		})
	}
}

func TestDeserializeErrors(t *testing.T) {
	var cmd Command
	if err := cmd.Deserialize([]byte{0, 1, 2}); err == nil {
		t.Errorf("Expected error for short header")
	}

	data := (&Command{Type: CommandTSet, Key: "abcdef"}).Serialize()
	if err := cmd.Deserialize(data[:len(data)-2]); err == nil {
		t.Errorf("Expected error for truncated key")
	}
}

func TestToDBFeature(t *testing.T) {
	tests := []struct {
		ct   CommandType
		want db.Feature
	}{
		{CommandTSet, db.FeatureSet},
		{CommandTSetIfUnset, db.FeatureSetIfUnset},
		{CommandTDelete, db.FeatureDelete},
	}
	for _, tt := range tests {
		t.Run(tt.ct.String(), func(t *testing.T) {
			got, err := tt.ct.ToDBFeature()
			if err != nil || got != tt.want {
				t.Errorf("ToDBFeature() = %v, %v, want %v", got, err, tt.want)
			}
		})
	}
	if _, err := CommandType(42).ToDBFeature(); err == nil {
		t.Errorf("Expected error for unknown command type")
	}
}

func TestFlags(t *testing.T) {
	if !DecodeFlag(EncodeFlag(true)) || DecodeFlag(EncodeFlag(false)) || DecodeFlag(nil) {
		t.Errorf("Flag encoding does not round trip")
	}
}
