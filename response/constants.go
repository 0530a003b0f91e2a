package response

import (
	"math"
	"time"
)

const (
	// MaxAgeDefault is returned by MaxAge when the option is absent and the
	// protocol default applies.
	MaxAgeDefault = -1

	// DefaultMaxAge is the freshness lifetime of a response without Max-Age.
	DefaultMaxAge = 60 * time.Second

	maxMaxAge = math.MaxUint32

	MinETagLength = 1
	MaxETagLength = 8
)
