package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	log "github.com/ndmsystems/logger"

	"github.com/coalalib/coalamsg/message"
	"github.com/coalalib/coalamsg/response"
)

const defaultTokenLength = 4

func main() {
	opts, err := ParseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if opts.Build {
		err = build(os.Stdout, opts)
	} else {
		err = decodeAll(os.Stdout, os.Stdin, opts)
	}
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func build(w io.Writer, opts Options) error {
	t, err := parseType(opts.Type)
	if err != nil {
		return err
	}
	code, err := parseCode(opts.Code)
	if err != nil {
		return err
	}
	var token []byte
	switch opts.Token {
	case "none":
	case "":
		token = message.GenerateToken(defaultTokenLength)
	default:
		if token, err = hex.DecodeString(opts.Token); err != nil {
			return fmt.Errorf("token: %w", err)
		}
	}
	msgID := uint16(opts.MsgID)
	if msgID == 0 {
		msgID = message.GenerateMessageID()
	}

	r, err := response.New(t, code, msgID, token)
	if err != nil {
		return err
	}
	if opts.MaxAge >= 0 {
		if err := r.SetMaxAge(opts.MaxAge); err != nil {
			return err
		}
	}
	r.SetPayload([]byte(opts.Payload))
	switch opts.ETag {
	case "":
	case "auto":
		err = r.SetETag(response.ETagFromPayload([]byte(opts.Payload)))
	default:
		var tag []byte
		if tag, err = hex.DecodeString(opts.ETag); err == nil {
			err = r.SetETag(tag)
		}
	}
	if err != nil {
		return fmt.Errorf("etag: %w", err)
	}

	b, err := r.Marshal()
	if err != nil {
		return err
	}
	log.Debug(r.String())
	fmt.Fprintln(w, hex.EncodeToString(b))
	return nil
}

// decodeAll decodes every hex argument, or every stdin line when there are
// none. All inputs are attempted; the first failure is returned.
func decodeAll(w io.Writer, stdin io.Reader, opts Options) error {
	inputs := opts.Args
	if len(inputs) == 0 {
		sc := bufio.NewScanner(stdin)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				inputs = append(inputs, line)
			}
		}
		if err := sc.Err(); err != nil {
			return err
		}
	}

	var first error
	for _, in := range inputs {
		if err := decodeOne(w, in, opts.Verbose); err != nil {
			fmt.Fprintf(w, "%s: %v\n", in, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func decodeOne(w io.Writer, in string, verbose bool) error {
	data, err := hex.DecodeString(strings.ReplaceAll(in, " ", ""))
	if err != nil {
		return err
	}
	r, err := response.Unmarshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, r.String())
	if !verbose {
		return nil
	}
	fmt.Fprintf(w, "  code:    %s (%d)\n", r.Code().Dotted(), r.RawCode())
	if t := r.Token(); t != nil {
		fmt.Fprintf(w, "  token:   %x\n", t)
	}
	if age := r.MaxAge(); age != response.MaxAgeDefault {
		fmt.Fprintf(w, "  max-age: %d\n", age)
	} else {
		fmt.Fprintf(w, "  max-age: default (%v)\n", response.DefaultMaxAge)
	}
	for _, tag := range r.ETags() {
		fmt.Fprintf(w, "  etag:    %x\n", tag)
	}
	fmt.Fprintf(w, "  payload: %s\n", humanize.Bytes(uint64(len(r.Payload()))))
	if err := r.Validate(); err != nil {
		fmt.Fprintf(w, "  invalid: %v\n", err)
	}
	return nil
}
