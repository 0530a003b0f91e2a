package message

import (
	"encoding/binary"
	"encoding/hex"
	"errors"

	cerr "github.com/coalalib/coalamsg/errors"
)

// EncodeUint returns the shortest big-endian representation of v.
// Zero encodes to an empty value.
func EncodeUint(v uint64) []byte {
	if v == 0 {
		return nil
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	i := 0
	for buf[i] == 0 {
		i++
	}
	return buf[i:]
}

// DecodeUint reads a big-endian unsigned integer of 0 to 8 bytes.
// Leading zero bytes are tolerated.
func DecodeUint(b []byte) (uint64, error) {
	if len(b) > 8 {
		return 0, cerr.IntOutOfRange
	}
	tmp := make([]byte, 8)
	copy(tmp[8-len(b):], b)

	return binary.BigEndian.Uint64(tmp), nil
}

func hexString(b []byte) string {
	return hex.EncodeToString(b)
}

func getOptionHeaderValue(optValue int) (int, error) {
	switch true {
	case optValue <= 12:
		return optValue, nil

	case optValue <= 268:
		return 13, nil

	case optValue <= 65804:
		return 14, nil
	}
	return 0, errors.New("Invalid Option Delta")
}

// Validates a message object and returns any error upon validation failure
func validateMessage(msg *CoAPMessage) error {
	if msg.Type > RST {
		return cerr.UnknownMessageType
	}

	if len(msg.Token) > MaxTokenLength {
		return cerr.InvalidTokenLength
	}

	return nil
}
