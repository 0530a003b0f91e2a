package response

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// ETagFromPayload derives an 8 byte entity tag from a representation.
// Equal payloads always produce equal tags.
func ETagFromPayload(payload []byte) []byte {
	tag := make([]byte, MaxETagLength)
	binary.BigEndian.PutUint64(tag, xxh3.Hash(payload))
	return tag
}
