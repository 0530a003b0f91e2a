package message

import "fmt"

const PayloadMarker = 0xff

const (
	ProtocolVersion = 1
	MaxTokenLength  = 8
)

type CoapType uint8

const (
	CON CoapType = 0
	NON CoapType = 1
	ACK CoapType = 2
	RST CoapType = 3
)

func (t CoapType) String() string {
	switch t {
	case CON:
		return "Confirmable"
	case NON:
		return "NonConfirmable"
	case ACK:
		return "Acknowledgement"
	case RST:
		return "Reset"
	}
	return fmt.Sprintf("Unknown (0x%x)", uint8(t))
}

// CoapCode is the raw 8 bit code field: 3 bit class, 5 bit detail.
type CoapCode uint8

const (
	CoapCodeEmpty CoapCode = 0

	GET    CoapCode = 1
	POST   CoapCode = 2
	PUT    CoapCode = 3
	DELETE CoapCode = 4
)

func (c CoapCode) Class() uint8 {
	return uint8(c) >> 5
}

func (c CoapCode) Detail() uint8 {
	return uint8(c) & 0x1f
}

func (c CoapCode) String() string {
	return fmt.Sprintf("%d.%02d", c.Class(), c.Detail())
}

type OptionCode uint16

const (
	OptionIfMatch       OptionCode = 1
	OptionURIHost       OptionCode = 3
	OptionEtag          OptionCode = 4
	OptionIfNoneMatch   OptionCode = 5
	OptionObserve       OptionCode = 6
	OptionURIPort       OptionCode = 7
	OptionLocationPath  OptionCode = 8
	OptionURIPath       OptionCode = 11
	OptionContentFormat OptionCode = 12
	OptionMaxAge        OptionCode = 14
	OptionURIQuery      OptionCode = 15
	OptionAccept        OptionCode = 17
	OptionLocationQuery OptionCode = 20
	OptionBlock2        OptionCode = 23
	OptionBlock1        OptionCode = 27
	OptionSize2         OptionCode = 28
	OptionProxyURI      OptionCode = 35
	OptionProxyScheme   OptionCode = 39
	OptionSize1         OptionCode = 60
)

// Fragments/parts of a CoAP Message packet
const (
	DataHeader     = 0
	DataCode       = 1
	DataMsgIDStart = 2
	DataMsgIDEnd   = 4
	DataTokenStart = 4
)
