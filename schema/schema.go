package schema

import "encoding/json"

// Schema is the interface shared by every structured payload exchanged with a
// reasoning engine or a tool.
type Schema interface {
	String() string
}

// Stringify renders a schema as the text placed on the wire. String payloads
// pass through untouched, everything else is JSON encoded.
func Stringify(s Schema) string {
	if v, ok := s.(String); ok {
		return string(v)
	}
	bs, _ := json.Marshal(s)
	return string(bs)
}

// ToBytes is Stringify returning raw bytes.
func ToBytes(s Schema) []byte {
	if v, ok := s.(String); ok {
		return []byte(v)
	}
	bs, _ := json.Marshal(s)
	return bs
}
