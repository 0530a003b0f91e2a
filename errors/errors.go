package cerr

import (
	"errors"
	"fmt"
)

// Message framing
var (
	PacketLengthLessThan4   = errors.New("Packet length less than 4 bytes")
	InvalidCoapVersion      = errors.New("Invalid CoAP version. Should be 1.")
	InvalidTokenLength      = errors.New("Invalid Token Length ( > 8)")
	OptionLengthUsesValue15 = errors.New("Message format error. Option length has reserved value of 15")
	OptionDeltaUsesValue15  = errors.New("Message format error. Option delta has reserved value of 15")
	OptionTruncated         = errors.New("Message format error. Option value runs past the end of packet")
	TokenTruncated          = errors.New("Message format error. Token runs past the end of packet")
	EmptyPayload            = errors.New("Message format error. Payload marker followed by zero-length payload")
	InvalidBounds           = errors.New("Length and offset do not fit the buffer")
	UnknownMessageType      = errors.New("Unknown message type")
	MalformedMessage        = errors.New("Malformed message")
	NilMessage              = errors.New("Message is nil")
)

// Response semantics
var (
	MalformedCode   = errors.New("Invalid response code")
	UnknownCode     = errors.New("Unknown response code")
	InvalidArgument = errors.New("Invalid argument")
	OptionExists    = errors.New("Option already exists")
	DuplicateOption = errors.New("Non-repeatable option occurs more than once")
	IntOutOfRange   = errors.New("Unsigned integer option does not fit in 8 bytes")
)

// DecodeError reports a datagram that could not be turned into a message.
// It matches MalformedMessage and unwraps to the underlying cause.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %v", MalformedMessage, e.Cause)
}

func (e *DecodeError) Is(target error) bool {
	return target == MalformedMessage
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
