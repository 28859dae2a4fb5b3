package avlmap

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Entries are encoded in protobuf wire format, as if by
//
//	message Entries { repeated Entry entry = 1; }
//	message Entry   { bytes key = 1; bytes value = 2; }
//
// with keys and values serialized by the map's marshal function.
const (
	entriesEntryField protowire.Number = 1
	entryKeyField     protowire.Number = 1
	entryValueField   protowire.Number = 2
)

func appendEntry(buf []byte, key, value interface{}, marshal func(interface{}) ([]byte, error)) ([]byte, error) {
	keyBytes, err := marshal(key)
	if err != nil {
		return nil, fmt.Errorf("marshal key %v: %w", key, err)
	}
	valueBytes, err := marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal value for key %v: %w", key, err)
	}
	body := make([]byte, 0, len(keyBytes)+len(valueBytes)+16)
	body = protowire.AppendTag(body, entryKeyField, protowire.BytesType)
	body = protowire.AppendBytes(body, keyBytes)
	body = protowire.AppendTag(body, entryValueField, protowire.BytesType)
	body = protowire.AppendBytes(body, valueBytes)

	buf = protowire.AppendTag(buf, entriesEntryField, protowire.BytesType)
	return protowire.AppendBytes(buf, body), nil
}

// encodeEntries encodes the entries below n in key order.
func encodeEntries[K, V any](n *node[K, V], marshal func(interface{}) ([]byte, error)) ([]byte, error) {
	var buf []byte
	err := n.iter(func(key K, value V) error {
		var err error
		buf, err = appendEntry(buf, key, value, marshal)
		return err
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}
