//go:build !windows

package clipboard

import "errors"

func sendPaste() error {
	return errors.New("paste keystroke not supported on this platform")
}
