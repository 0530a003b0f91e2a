package message

import (
	"strconv"
)

// option value formats
const (
	EmptyValue = iota
	UintValue
	StringValue
	OpaqueValue
)

type optionDef struct {
	name       string
	format     int
	repeatable bool
	minLen     int
	maxLen     int
}

/*
	+-----+----+---+---+---+----------------+--------+--------+---------+
	| No. | C  | U | N | R | Name           | Format | Length | Default |
	+-----+----+---+---+---+----------------+--------+--------+---------+
	|   1 | x  |   |   | x | If-Match       | opaque | 0-8    | (none)  |
	|   3 | x  | x | - |   | Uri-Host       | string | 1-255  | (none)  |
	|   4 |    |   |   | x | ETag           | opaque | 1-8    | (none)  |
	|   5 | x  |   |   |   | If-None-Match  | empty  | 0      | (none)  |
	|   7 | x  | x | - |   | Uri-Port       | uint   | 0-2    | (none)  |
	|   8 |    |   |   | x | Location-Path  | string | 0-255  | (none)  |
	|  11 | x  | x | - | x | Uri-Path       | string | 0-255  | (none)  |
	|  12 |    |   |   |   | Content-Format | uint   | 0-2    | (none)  |
	|  14 |    | x | - |   | Max-Age        | uint   | 0-4    | 60      |
	|  15 | x  | x | - | x | Uri-Query      | string | 0-255  | (none)  |
	|  17 | x  |   |   |   | Accept         | uint   | 0-2    | (none)  |
	|  20 |    |   |   | x | Location-Query | string | 0-255  | (none)  |
	|  35 | x  | x | - |   | Proxy-Uri      | string | 1-1034 | (none)  |
	|  39 | x  | x | - |   | Proxy-Scheme   | string | 1-255  | (none)  |
	|  60 |    |   | x |   | Size1          | uint   | 0-4    | (none)  |
	+-----+----+---+---+---+----------------+--------+--------+---------+

	C=Critical, U=Unsafe, N=No-Cache-Key, R=Repeatable
*/
var optionDefs = map[OptionCode]optionDef{
	OptionIfMatch:       {name: "If-Match", format: OpaqueValue, repeatable: true, minLen: 0, maxLen: 8},
	OptionURIHost:       {name: "Uri-Host", format: StringValue, minLen: 1, maxLen: 255},
	OptionEtag:          {name: "ETag", format: OpaqueValue, repeatable: true, minLen: 1, maxLen: 8},
	OptionIfNoneMatch:   {name: "If-None-Match", format: EmptyValue, minLen: 0, maxLen: 0},
	OptionObserve:       {name: "Observe", format: UintValue, minLen: 0, maxLen: 3},
	OptionURIPort:       {name: "Uri-Port", format: UintValue, minLen: 0, maxLen: 2},
	OptionLocationPath:  {name: "Location-Path", format: StringValue, repeatable: true, minLen: 0, maxLen: 255},
	OptionURIPath:       {name: "Uri-Path", format: StringValue, repeatable: true, minLen: 0, maxLen: 255},
	OptionContentFormat: {name: "Content-Format", format: UintValue, minLen: 0, maxLen: 2},
	OptionMaxAge:        {name: "Max-Age", format: UintValue, minLen: 0, maxLen: 4},
	OptionURIQuery:      {name: "Uri-Query", format: StringValue, repeatable: true, minLen: 0, maxLen: 255},
	OptionAccept:        {name: "Accept", format: UintValue, minLen: 0, maxLen: 2},
	OptionLocationQuery: {name: "Location-Query", format: StringValue, repeatable: true, minLen: 0, maxLen: 255},
	OptionBlock2:        {name: "Block2", format: UintValue, minLen: 0, maxLen: 3},
	OptionBlock1:        {name: "Block1", format: UintValue, minLen: 0, maxLen: 3},
	OptionSize2:         {name: "Size2", format: UintValue, minLen: 0, maxLen: 4},
	OptionProxyURI:      {name: "Proxy-Uri", format: StringValue, minLen: 1, maxLen: 1034},
	OptionProxyScheme:   {name: "Proxy-Scheme", format: StringValue, minLen: 1, maxLen: 255},
	OptionSize1:         {name: "Size1", format: UintValue, minLen: 0, maxLen: 4},
}

func (c OptionCode) String() string {
	if def, ok := optionDefs[c]; ok {
		return def.name
	}
	return strconv.Itoa(int(c))
}

// IsCritical reports whether an unrecognized option of this number must be rejected.
func (c OptionCode) IsCritical() bool {
	return c&0x01 == 1
}

func (c OptionCode) IsElective() bool {
	return !c.IsCritical()
}

// IsRepeatable reports whether the option may occur more than once.
// Unregistered options are treated as non-repeatable.
func (c OptionCode) IsRepeatable() bool {
	return optionDefs[c].repeatable
}

// IsRegistered reports whether the option number is known to this package.
func (c OptionCode) IsRegistered() bool {
	_, ok := optionDefs[c]
	return ok
}

// LengthBounds returns the permitted value length range of a registered option.
func (c OptionCode) LengthBounds() (min, max int, ok bool) {
	def, ok := optionDefs[c]
	return def.minLen, def.maxLen, ok
}

// Represents an Option for a CoAP Message
type CoAPMessageOption struct {
	Code  OptionCode
	Value []byte
}

// Instantiates a New Option. The value is copied.
func NewOption(code OptionCode, value []byte) *CoAPMessageOption {
	var v []byte
	if value != nil {
		v = make([]byte, len(value))
		copy(v, value)
	}
	return &CoAPMessageOption{
		Code:  code,
		Value: v,
	}
}

func (o *CoAPMessageOption) StringValue() string {
	return string(o.Value)
}

func (o *CoAPMessageOption) UintValue() (uint64, error) {
	return DecodeUint(o.Value)
}

func (o *CoAPMessageOption) String() string {
	switch optionDefs[o.Code].format {
	case UintValue:
		if v, err := o.UintValue(); err == nil {
			return o.Code.String() + ": " + strconv.FormatUint(v, 10)
		}
	case StringValue:
		return o.Code.String() + ": " + strconv.Quote(o.StringValue())
	}
	return o.Code.String() + ": 0x" + hexString(o.Value)
}

// OptionStore is the keyed, possibly multi-valued option container a
// message carries. Values are raw wire bytes.
type OptionStore interface {
	Exists(code OptionCode) bool
	Get(code OptionCode) *CoAPMessageOption
	GetAll(code OptionCode) []*CoAPMessageOption
	Add(code OptionCode, value []byte)
	Count() int
}

// OptionList keeps options in insertion order. It is the OptionStore used
// by CoAPMessage.
type OptionList []*CoAPMessageOption

var _ OptionStore = (*OptionList)(nil)

func (l *OptionList) Exists(code OptionCode) bool {
	return l.Get(code) != nil
}

// Returns the first option found for a given option code
func (l *OptionList) Get(code OptionCode) *CoAPMessageOption {
	for _, o := range *l {
		if o.Code == code {
			return o
		}
	}
	return nil
}

// Returns an array of options given an option code
func (l *OptionList) GetAll(code OptionCode) []*CoAPMessageOption {
	var opts []*CoAPMessageOption
	for _, o := range *l {
		if o.Code == code {
			opts = append(opts, o)
		}
	}
	return opts
}

// Add appends an option. Existing options of the same code are kept.
func (l *OptionList) Add(code OptionCode, value []byte) {
	*l = append(*l, NewOption(code, value))
}

// Remove drops every option with the given code.
func (l *OptionList) Remove(code OptionCode) {
	var opts OptionList
	for _, o := range *l {
		if o.Code != code {
			opts = append(opts, o)
		}
	}
	*l = opts
}

func (l *OptionList) Count() int {
	return len(*l)
}
