package doctor

import (
	"fmt"
	"sync"
	"time"

	"github.com/micmonay/keybd_event"

	"umiko/hotkey"
	"umiko/keys"
)

var injectKeys = map[keys.Code]int{
	keys.A: keybd_event.VK_A, keys.B: keybd_event.VK_B, keys.C: keybd_event.VK_C,
	keys.D: keybd_event.VK_D, keys.E: keybd_event.VK_E, keys.F: keybd_event.VK_F,
	keys.G: keybd_event.VK_G, keys.H: keybd_event.VK_H, keys.I: keybd_event.VK_I,
	keys.J: keybd_event.VK_J, keys.K: keybd_event.VK_K, keys.L: keybd_event.VK_L,
	keys.M: keybd_event.VK_M, keys.N: keybd_event.VK_N, keys.O: keybd_event.VK_O,
	keys.P: keybd_event.VK_P, keys.Q: keybd_event.VK_Q, keys.R: keybd_event.VK_R,
	keys.S: keybd_event.VK_S, keys.T: keybd_event.VK_T, keys.U: keybd_event.VK_U,
	keys.V: keybd_event.VK_V, keys.W: keybd_event.VK_W, keys.X: keybd_event.VK_X,
	keys.Y: keybd_event.VK_Y, keys.Z: keybd_event.VK_Z,

	keys.Key0: keybd_event.VK_0, keys.Key1: keybd_event.VK_1, keys.Key2: keybd_event.VK_2,
	keys.Key3: keybd_event.VK_3, keys.Key4: keybd_event.VK_4, keys.Key5: keybd_event.VK_5,
	keys.Key6: keybd_event.VK_6, keys.Key7: keybd_event.VK_7, keys.Key8: keybd_event.VK_8,
	keys.Key9: keybd_event.VK_9,

	keys.F1: keybd_event.VK_F1, keys.F2: keybd_event.VK_F2, keys.F3: keybd_event.VK_F3,
	keys.F4: keybd_event.VK_F4, keys.F5: keybd_event.VK_F5, keys.F6: keybd_event.VK_F6,
	keys.F7: keybd_event.VK_F7, keys.F8: keybd_event.VK_F8, keys.F9: keybd_event.VK_F9,
	keys.F10: keybd_event.VK_F10, keys.F11: keybd_event.VK_F11, keys.F12: keybd_event.VK_F12,
}

var (
	kb     keybd_event.KeyBonding
	kbOnce sync.Once
	kbErr  error
)

func initInjector() error {
	kbOnce.Do(func() {
		kb, kbErr = keybd_event.NewKeyBonding()
		if kbErr == nil && settleDelay > 0 {
			// the virtual keyboard needs a moment before the desktop sees it
			time.Sleep(settleDelay)
		}
	})
	return kbErr
}

// inject types mods+code once through a virtual keyboard. Super is not
// supported by every keybd_event platform and is rejected.
func inject(mods hotkey.Modifiers, code keys.Code) error {
	vk, ok := injectKeys[code]
	if !ok {
		return fmt.Errorf("cannot inject %v", code)
	}
	if mods.Has(hotkey.ModSuper) {
		return fmt.Errorf("cannot inject Super combinations")
	}
	if err := initInjector(); err != nil {
		return err
	}
	kb.Clear()
	kb.SetKeys(vk)
	kb.HasCTRL(mods.Has(hotkey.ModControl))
	kb.HasALT(mods.Has(hotkey.ModAlt))
	kb.HasSHIFT(mods.Has(hotkey.ModShift))
	return kb.Launching()
}
