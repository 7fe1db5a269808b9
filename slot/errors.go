package slot

import "github.com/hupe1980/shopcart/core"

// ErrEmpty is returned by Load when nothing was saved to the slot yet. It is
// core.ErrSlotEmpty, re-exported for callers that only import this package.
var ErrEmpty = core.ErrSlotEmpty

// DefaultKey is the slot name used when none is configured.
const DefaultKey = "@RocketShoes:cart"
