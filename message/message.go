package message

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	log "github.com/ndmsystems/logger"

	cerr "github.com/coalalib/coalamsg/errors"
)

// A Message object represents a CoAP packet
type CoAPMessage struct {
	Version   uint8
	Type      CoapType
	Code      CoapCode
	MessageID uint16
	Token     []byte
	Options   OptionList
	Payload   CoAPMessagePayload
}

func NewCoAPMessage(messageType CoapType, messageCode CoapCode) *CoAPMessage {
	return NewCoAPMessageId(messageType, messageCode, GenerateMessageID())
}

func NewCoAPMessageId(messageType CoapType, messageCode CoapCode, messageID uint16) *CoAPMessage {
	return &CoAPMessage{
		Version:   ProtocolVersion,
		MessageID: messageID,
		Type:      messageType,
		Code:      messageCode,
		Payload:   NewEmptyPayload(),
	}
}

// Converts an array of bytes to a Message object.
// An error is returned if a parsing error occurs
func Deserialize(data []byte) (*CoAPMessage, error) {
	return DeserializeAt(data, len(data), 0)
}

// DeserializeAt parses the length bytes of data starting at offset.
// The returned message does not alias data.
func DeserializeAt(data []byte, length, offset int) (*CoAPMessage, error) {
	if offset < 0 || length < 0 || offset > len(data) || length > len(data)-offset {
		return nil, cerr.InvalidBounds
	}
	msg, err := deserialize(data[offset : offset+length])
	if err != nil {
		log.Debug(fmt.Sprintf("coap: drop %d byte packet: %v", length, err))
		return nil, err
	}
	return msg, nil
}

func deserialize(data []byte) (*CoAPMessage, error) {
	if len(data) < 4 {
		return nil, cerr.PacketLengthLessThan4
	}

	msg := &CoAPMessage{}

	msg.Version = data[DataHeader] >> 6
	if msg.Version != ProtocolVersion {
		return nil, cerr.InvalidCoapVersion
	}

	msg.Type = CoapType(data[DataHeader] >> 4 & 0x03)
	tokenLength := int(data[DataHeader] & 0x0f)
	msg.Code = CoapCode(data[DataCode])
	msg.MessageID = binary.BigEndian.Uint16(data[DataMsgIDStart:DataMsgIDEnd])

	if tokenLength > MaxTokenLength {
		return nil, cerr.InvalidTokenLength
	}
	if DataTokenStart+tokenLength > len(data) {
		return nil, cerr.TokenTruncated
	}
	if tokenLength > 0 {
		msg.Token = make([]byte, tokenLength)
		copy(msg.Token, data[DataTokenStart:DataTokenStart+tokenLength])
	}

	/*
	    0   1   2   3   4   5   6   7
	   +---------------+---------------+
	   |  Option Delta | Option Length |   1 byte
	   +---------------+---------------+
	   /         Option Delta          /   0-2 bytes
	   \          (extended)           \
	   +-------------------------------+
	   /         Option Length         /   0-2 bytes
	   \          (extended)           \
	   +-------------------------------+
	   /         Option Value          /   0 or more bytes
	   +-------------------------------+
	*/
	tmp := data[DataTokenStart+tokenLength:]

	lastOptionID := 0
	for len(tmp) > 0 {
		if tmp[0] == PayloadMarker {
			tmp = tmp[1:]
			if len(tmp) == 0 {
				return nil, cerr.EmptyPayload
			}
			break
		}

		optionDelta := int(tmp[0] >> 4)
		optionLength := int(tmp[0] & 0x0f)
		tmp = tmp[1:]

		var err error
		if optionDelta == 15 {
			return nil, cerr.OptionDeltaUsesValue15
		}
		if optionDelta, tmp, err = readExtended(optionDelta, tmp); err != nil {
			return nil, err
		}
		if optionLength == 15 {
			return nil, cerr.OptionLengthUsesValue15
		}
		if optionLength, tmp, err = readExtended(optionLength, tmp); err != nil {
			return nil, err
		}

		lastOptionID += optionDelta
		if lastOptionID > 0xffff || optionLength > len(tmp) {
			return nil, cerr.OptionTruncated
		}

		msg.Options.Add(OptionCode(lastOptionID), tmp[:optionLength])
		tmp = tmp[optionLength:]
	}

	payload := make([]byte, len(tmp))
	copy(payload, tmp)
	msg.Payload = NewBytesPayload(payload)

	return msg, validateMessage(msg)
}

func readExtended(v int, tmp []byte) (int, []byte, error) {
	switch v {
	case 13:
		if len(tmp) < 1 {
			return 0, nil, cerr.OptionTruncated
		}
		return int(tmp[0]) + 13, tmp[1:], nil
	case 14:
		if len(tmp) < 2 {
			return 0, nil, cerr.OptionTruncated
		}
		return int(binary.BigEndian.Uint16(tmp[:2])) + 269, tmp[2:], nil
	}
	return v, tmp, nil
}

// Converts a message object to a byte array. Typically done prior to transmission
func Serialize(msg *CoAPMessage) ([]byte, error) {
	if msg == nil {
		return nil, cerr.NilMessage
	}
	if err := validateMessage(msg); err != nil {
		return nil, err
	}

	buf := bytes.Buffer{}
	buf.WriteByte(ProtocolVersion<<6 | uint8(msg.Type)<<4 | 0x0f&uint8(len(msg.Token)))
	buf.WriteByte(byte(msg.Code))
	binary.Write(&buf, binary.BigEndian, msg.MessageID)
	buf.Write(msg.Token)

	// options go out in ascending order, repeated ones keep their relative order
	opts := make([]*CoAPMessageOption, len(msg.Options))
	copy(opts, msg.Options)
	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].Code < opts[j].Code
	})

	lastOptionCode := 0
	for _, opt := range opts {
		optDelta := int(opt.Code) - lastOptionCode
		optLength := len(opt.Value)

		optDeltaValue, err := getOptionHeaderValue(optDelta)
		if err != nil {
			return nil, err
		}
		optLengthValue, err := getOptionHeaderValue(optLength)
		if err != nil {
			return nil, err
		}

		// Option Header
		buf.WriteByte(byte(optDeltaValue<<4 | optLengthValue))

		// Extended Delta & Length
		writeExtended(&buf, optDeltaValue, optDelta)
		writeExtended(&buf, optLengthValue, optLength)

		// Option Value
		buf.Write(opt.Value)
		lastOptionCode = int(opt.Code)
	}

	if msg.Payload != nil && msg.Payload.Length() > 0 {
		buf.WriteByte(PayloadMarker)
		buf.Write(msg.Payload.Bytes())
	}

	return buf.Bytes(), nil
}

func writeExtended(buf *bytes.Buffer, nibble, v int) {
	switch nibble {
	case 13:
		buf.WriteByte(byte(v - 13))
	case 14:
		binary.Write(buf, binary.BigEndian, uint16(v-269))
	}
}

func (m *CoAPMessage) GetTokenLength() uint8 {
	return uint8(len(m.Token))
}

// SetToken stores a copy of t.
func (m *CoAPMessage) SetToken(t []byte) {
	if len(t) == 0 {
		m.Token = nil
		return
	}
	m.Token = make([]byte, len(t))
	copy(m.Token, t)
}

func (m *CoAPMessage) GetPayload() []byte {
	if m.Payload == nil {
		return nil
	}
	return m.Payload.Bytes()
}

func (m *CoAPMessage) String() string {
	if len(m.Token) == 0 {
		return fmt.Sprintf("%v,%v,%d", m.Type, m.Code, m.MessageID)
	}
	return fmt.Sprintf("%v,%v,%d,%s", m.Type, m.Code, m.MessageID, hexString(m.Token))
}

// ToReadableString renders every header field and option on one line.
func (m *CoAPMessage) ToReadableString() string {
	options := ""
	for _, option := range m.Options {
		options += fmt.Sprintf("%v ", option)
	}

	return fmt.Sprintf(
		"%v\t%v\t%v\t%v\t[%v]",
		m.Type,
		m.Code,
		hexString(m.Token),
		m.MessageID,
		options)
}
