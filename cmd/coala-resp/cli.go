package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/coalalib/coalamsg/message"
	"github.com/coalalib/coalamsg/response"
)

// Options holds CLI options.
type Options struct {
	Verbose bool
	Build   bool
	Type    string
	Code    string
	MsgID   uint
	Token   string
	MaxAge  int64
	ETag    string
	Payload string
	Args    []string
}

// ParseFlags parses CLI flags from args and returns Options.
func ParseFlags(args []string) (Options, error) {
	fs := flag.NewFlagSet("coala-resp", flag.ContinueOnError)
	var opts Options
	fs.BoolVar(&opts.Verbose, "v", false, "Print options and payload size of decoded responses")
	fs.BoolVar(&opts.Build, "build", false, "Encode a response from flags instead of decoding")
	fs.StringVar(&opts.Type, "type", "ack", "Message type for -build: con, non, ack or rst")
	fs.StringVar(&opts.Code, "code", "2.05", "Response code for -build: number, c.dd or name")
	fs.UintVar(&opts.MsgID, "msgid", 0, "Message ID for -build, 0 picks one")
	fs.StringVar(&opts.Token, "token", "", "Token in hex for -build, \"none\" sends none, empty picks a random one")
	fs.Int64Var(&opts.MaxAge, "max-age", -1, "Max-Age in seconds for -build, -1 leaves it out")
	fs.StringVar(&opts.ETag, "etag", "", "ETag in hex for -build, \"auto\" derives it from the payload")
	fs.StringVar(&opts.Payload, "payload", "", "Payload for -build")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.MsgID > 0xffff {
		return opts, fmt.Errorf("msgid %d does not fit in 16 bits", opts.MsgID)
	}
	opts.Args = fs.Args()
	return opts, nil
}

func parseType(s string) (message.CoapType, error) {
	switch strings.ToLower(s) {
	case "con":
		return message.CON, nil
	case "non":
		return message.NON, nil
	case "ack":
		return message.ACK, nil
	case "rst":
		return message.RST, nil
	}
	return 0, fmt.Errorf("unknown message type %q", s)
}

// parseCode accepts a wire value ("69"), dotted form ("2.05") or display
// name ("Content_205").
func parseCode(s string) (response.ResponseCode, error) {
	for _, c := range response.ResponseCodes() {
		if strings.EqualFold(s, c.String()) || s == c.Dotted() {
			return c, nil
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return response.Unknown, fmt.Errorf("unknown response code %q", s)
	}
	return response.ParseResponseCode(v)
}
