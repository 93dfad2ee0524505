// Package lifecycle holds timing constants shared by components that hook into the fx lifecycle.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop hooks (DB ping, Redis ping, HTTP shutdown).
const DefaultTimeout = 10 * time.Second
