package pricing

import "errors"

// ErrNotFound is the sentinel wrapped by provider clients when a pricing
// source has no rate for the requested lookup, as opposed to a transport
// or decode failure. The calculator's not-found policy keys off it with
// errors.Is.
var ErrNotFound = errors.New("rate not found")
