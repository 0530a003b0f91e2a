package response

import (
	"fmt"

	cerr "github.com/coalalib/coalamsg/errors"
)

// ResponseCode is a recognized CoAP response code or Unknown.
// The value of a named code is its wire value.
type ResponseCode int

const (
	// Unknown is a code in the response range that this package does not
	// recognize. It has no wire value.
	Unknown ResponseCode = -1

	Created ResponseCode = 65 // 2.01
	Deleted ResponseCode = 66 // 2.02
	Valid   ResponseCode = 67 // 2.03
	Changed ResponseCode = 68 // 2.04
	Content ResponseCode = 69 // 2.05

	BadRequest            ResponseCode = 128 // 4.00
	Unauthorized          ResponseCode = 129 // 4.01
	BadOption             ResponseCode = 130 // 4.02
	Forbidden             ResponseCode = 131 // 4.03
	NotFound              ResponseCode = 132 // 4.04
	MethodNotAllowed      ResponseCode = 133 // 4.05
	PreconditionFailed    ResponseCode = 140 // 4.12
	RequestEntityTooLarge ResponseCode = 141 // 4.13
	UnsupportedMediaType  ResponseCode = 143 // 4.15

	InternalServerError  ResponseCode = 160 // 5.00
	NotImplemented       ResponseCode = 161 // 5.01
	BadGateway           ResponseCode = 162 // 5.02
	ServiceUnavailable   ResponseCode = 163 // 5.03
	GatewayTimeout       ResponseCode = 164 // 5.04
	ProxyingNotSupported ResponseCode = 165 // 5.05
)

// Bounds of the response code space. 32..63 are reserved.
const (
	MinResponseCode = 64
	MaxResponseCode = 191

	// 2.00 is retired and is not accepted as a response code.
	retiredCode = 64
)

const unknownName = "Unknown_Response_Code"

var codeNames = map[ResponseCode]string{
	Created:               "Created_201",
	Deleted:               "Deleted_202",
	Valid:                 "Valid_203",
	Changed:               "Changed_204",
	Content:               "Content_205",
	BadRequest:            "Bad_Request_400",
	Unauthorized:          "Unauthorized_401",
	BadOption:             "Bad_Option_402",
	Forbidden:             "Forbidden_403",
	NotFound:              "Not_Found_404",
	MethodNotAllowed:      "Method_Not_Allowed_405",
	PreconditionFailed:    "Precondition_Failed_412",
	RequestEntityTooLarge: "Request_Entity_To_Large_413",
	UnsupportedMediaType:  "Unsupported_Media_Type_415",
	InternalServerError:   "Internal_Server_Error_500",
	NotImplemented:        "Not_Implemented_501",
	BadGateway:            "Bad_Gateway_502",
	ServiceUnavailable:    "Service_Unavailable_503",
	GatewayTimeout:        "Gateway_Timeout_504",
	ProxyingNotSupported:  "Proxying_Not_Supported_505",
}

var allCodes = []ResponseCode{
	Created, Deleted, Valid, Changed, Content,
	BadRequest, Unauthorized, BadOption, Forbidden, NotFound, MethodNotAllowed,
	PreconditionFailed, RequestEntityTooLarge, UnsupportedMediaType,
	InternalServerError, NotImplemented, BadGateway, ServiceUnavailable,
	GatewayTimeout, ProxyingNotSupported,
}

// ResponseCodes returns every named code in wire order.
func ResponseCodes() []ResponseCode {
	codes := make([]ResponseCode, len(allCodes))
	copy(codes, allCodes)
	return codes
}

// ParseResponseCode classifies a numeric code field. Values in
// [MinResponseCode, MaxResponseCode] without a name yield Unknown; anything
// outside that range, and the retired 2.00, yields cerr.MalformedCode.
func ParseResponseCode(v int) (ResponseCode, error) {
	if v < MinResponseCode || v > MaxResponseCode || v == retiredCode {
		return Unknown, fmt.Errorf("%w: %d", cerr.MalformedCode, v)
	}
	c := ResponseCode(v)
	if _, ok := codeNames[c]; ok {
		return c, nil
	}
	return Unknown, nil
}

// IsKnown reports whether c is one of the named codes.
func (c ResponseCode) IsKnown() bool {
	_, ok := codeNames[c]
	return ok
}

// Value returns the wire value of a named code. Unknown has none.
func (c ResponseCode) Value() (int, error) {
	if !c.IsKnown() {
		return 0, fmt.Errorf("%w: %s has no wire value", cerr.InvalidArgument, c)
	}
	return int(c), nil
}

func (c ResponseCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return unknownName
}

// Class returns the code class (2, 4 or 5), or -1 for Unknown.
func (c ResponseCode) Class() int {
	if !c.IsKnown() {
		return -1
	}
	return int(c) >> 5
}

func (c ResponseCode) IsSuccess() bool {
	return c.Class() == 2
}

func (c ResponseCode) IsClientError() bool {
	return c.Class() == 4
}

func (c ResponseCode) IsServerError() bool {
	return c.Class() == 5
}

// Dotted renders c as "c.dd", e.g. "2.05".
func (c ResponseCode) Dotted() string {
	if !c.IsKnown() {
		return "?.??"
	}
	return fmt.Sprintf("%d.%02d", int(c)>>5, int(c)&0x1f)
}
