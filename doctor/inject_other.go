//go:build !linux

package doctor

import "time"

const settleDelay time.Duration = 0

const injectFix = "grant this terminal accessibility / input permissions"
