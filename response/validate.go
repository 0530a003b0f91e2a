package response

import (
	"fmt"

	cerr "github.com/coalalib/coalamsg/errors"
	"github.com/coalalib/coalamsg/message"
)

// Validate applies the checks that Decode and the setters leave out: the
// code must be recognized, registered non-repeatable options must occur at
// most once and ETag and Max-Age values must have legal lengths.
// It is never called implicitly.
func (r *ResponseMessage) Validate() error {
	if !r.code.IsKnown() {
		return fmt.Errorf("%w: raw code %d", cerr.UnknownCode, r.RawCode())
	}

	seen := make(map[message.OptionCode]bool)
	for _, opt := range r.msg.Options {
		if seen[opt.Code] {
			continue
		}
		seen[opt.Code] = true

		opts := r.options.GetAll(opt.Code)
		if len(opts) > 1 && opt.Code.IsRegistered() && !opt.Code.IsRepeatable() {
			return fmt.Errorf("%w: %v x%d", cerr.DuplicateOption, opt.Code, len(opts))
		}
	}

	for _, code := range []message.OptionCode{message.OptionEtag, message.OptionMaxAge} {
		min, max, _ := code.LengthBounds()
		for _, opt := range r.options.GetAll(code) {
			if n := len(opt.Value); n < min || n > max {
				return fmt.Errorf("%w: %v length %d", cerr.InvalidArgument, code, n)
			}
		}
	}

	return nil
}
