//go:build linux

package doctor

import "time"

// uinput devices take a while to be picked up by X11/Wayland.
const settleDelay = 2 * time.Second

const injectFix = "sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput"
