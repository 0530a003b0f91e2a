package response

import (
	"fmt"
	"time"

	log "github.com/ndmsystems/logger"

	cerr "github.com/coalalib/coalamsg/errors"
	"github.com/coalalib/coalamsg/message"
)

// ResponseMessage is a CoAP response. The code and message ID are fixed once
// constructed; options may be added through the setters.
//
// A ResponseMessage is not safe for concurrent mutation. Concurrent reads
// of a message that is no longer modified are fine.
type ResponseMessage struct {
	msg     *message.CoAPMessage
	code    ResponseCode
	options message.OptionStore
}

// Unmarshal decodes a whole datagram as a response.
func Unmarshal(data []byte) (*ResponseMessage, error) {
	return Decode(data, len(data), 0)
}

// Decode parses the length bytes of data starting at offset. A code outside
// the response range fails with an error matching both cerr.MalformedMessage
// and cerr.MalformedCode. A code inside the range but not recognized yields a
// response with Code() == Unknown.
//
// Option integrity is not checked here; see Validate.
func Decode(data []byte, length, offset int) (*ResponseMessage, error) {
	m, err := message.DeserializeAt(data, length, offset)
	if err != nil {
		return nil, &cerr.DecodeError{Cause: err}
	}
	return FromMessage(m)
}

// FromMessage classifies the code of an already decoded message. The
// response takes ownership of m.
func FromMessage(m *message.CoAPMessage) (*ResponseMessage, error) {
	if m == nil {
		return nil, cerr.NilMessage
	}
	code, err := ParseResponseCode(int(m.Code))
	if err != nil {
		log.Debug(fmt.Sprintf("coap: not a response: %v (msgid %d)", m.Code, m.MessageID))
		return nil, &cerr.DecodeError{Cause: err}
	}
	return &ResponseMessage{
		msg:     m,
		code:    code,
		options: &m.Options,
	}, nil
}

// New builds a response to be sent. code must be a named code; token may be
// nil and is copied.
func New(t message.CoapType, code ResponseCode, messageID uint16, token []byte) (*ResponseMessage, error) {
	value, err := code.Value()
	if err != nil {
		return nil, err
	}
	if t > message.RST {
		return nil, fmt.Errorf("%w: %v", cerr.InvalidArgument, cerr.UnknownMessageType)
	}
	if len(token) > message.MaxTokenLength {
		return nil, fmt.Errorf("%w: token length %d", cerr.InvalidArgument, len(token))
	}

	m := message.NewCoAPMessageId(t, message.CoapCode(value), messageID)
	m.SetToken(token)

	return &ResponseMessage{
		msg:     m,
		code:    code,
		options: &m.Options,
	}, nil
}

// Marshal encodes the response. A decoded Unknown response keeps its raw code.
func (r *ResponseMessage) Marshal() ([]byte, error) {
	return message.Serialize(r.msg)
}

func (r *ResponseMessage) Version() uint8 {
	return r.msg.Version
}

func (r *ResponseMessage) Type() message.CoapType {
	return r.msg.Type
}

func (r *ResponseMessage) Code() ResponseCode {
	return r.code
}

// RawCode is the numeric code field as carried on the wire.
func (r *ResponseMessage) RawCode() int {
	return int(r.msg.Code)
}

func (r *ResponseMessage) MessageID() uint16 {
	return r.msg.MessageID
}

// Token returns a copy of the token, nil when absent.
func (r *ResponseMessage) Token() []byte {
	if len(r.msg.Token) == 0 {
		return nil
	}
	t := make([]byte, len(r.msg.Token))
	copy(t, r.msg.Token)
	return t
}

func (r *ResponseMessage) Options() message.OptionStore {
	return r.options
}

func (r *ResponseMessage) Payload() []byte {
	return r.msg.GetPayload()
}

func (r *ResponseMessage) SetPayload(p []byte) {
	if len(p) == 0 {
		r.msg.Payload = message.NewEmptyPayload()
		return
	}
	b := make([]byte, len(p))
	copy(b, p)
	r.msg.Payload = message.NewBytesPayload(b)
}

// SetMaxAge sets the freshness lifetime in seconds. Max-Age is set once:
// a second call fails with cerr.OptionExists and leaves the first value.
func (r *ResponseMessage) SetMaxAge(seconds int64) error {
	if r.options.Exists(message.OptionMaxAge) {
		return fmt.Errorf("%w: %v", cerr.OptionExists, message.OptionMaxAge)
	}
	if seconds < 0 || seconds > maxMaxAge {
		return fmt.Errorf("%w: max-age %d", cerr.InvalidArgument, seconds)
	}
	r.options.Add(message.OptionMaxAge, message.EncodeUint(uint64(seconds)))
	return nil
}

// MaxAge returns the Max-Age option in seconds, or MaxAgeDefault when the
// option is absent or cannot be read.
func (r *ResponseMessage) MaxAge() int64 {
	opt := r.options.Get(message.OptionMaxAge)
	if opt == nil {
		return MaxAgeDefault
	}
	v, err := opt.UintValue()
	if err != nil || v > maxMaxAge {
		log.Debug(fmt.Sprintf("coap: msgid %d: unreadable max-age %x", r.msg.MessageID, opt.Value))
		return MaxAgeDefault
	}
	return int64(v)
}

// FreshFor returns Max-Age as a duration, DefaultMaxAge when absent.
func (r *ResponseMessage) FreshFor() time.Duration {
	age := r.MaxAge()
	if age == MaxAgeDefault {
		return DefaultMaxAge
	}
	return time.Duration(age) * time.Second
}

// SetETag adds an ETag of 1 to 8 bytes. Repeated calls add further ETag
// options; no duplicate check is made.
func (r *ResponseMessage) SetETag(tag []byte) error {
	if tag == nil {
		return fmt.Errorf("%w: etag must not be nil", cerr.InvalidArgument)
	}
	if len(tag) < MinETagLength || len(tag) > MaxETagLength {
		return fmt.Errorf("%w: etag length %d", cerr.InvalidArgument, len(tag))
	}
	r.options.Add(message.OptionEtag, tag)
	return nil
}

// ETag returns the first ETag option, nil when absent.
func (r *ResponseMessage) ETag() []byte {
	opt := r.options.Get(message.OptionEtag)
	if opt == nil {
		return nil
	}
	return copyBytes(opt.Value)
}

func (r *ResponseMessage) ETags() [][]byte {
	var tags [][]byte
	for _, opt := range r.options.GetAll(message.OptionEtag) {
		tags = append(tags, copyBytes(opt.Value))
	}
	return tags
}

func (r *ResponseMessage) IsRequest() bool {
	return false
}

func (r *ResponseMessage) IsResponse() bool {
	return true
}

func (r *ResponseMessage) IsEmpty() bool {
	return false
}

func (r *ResponseMessage) String() string {
	return fmt.Sprintf("%v, %v, MsgId: %d, #Options: %d",
		r.msg.Type, r.code, r.msg.MessageID, r.options.Count())
}

func copyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
