// Package clipboard places transcripts into the system clipboard and can
// simulate a paste keystroke into the focused window.
package clipboard

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
)

// settleDelay gives the clipboard owner time to publish the new content
// before the paste keystroke fires.
const settleDelay = 80 * time.Millisecond

// Controller implements ports.Clipboard.
type Controller struct{}

func New() *Controller {
	return &Controller{}
}

// Copy replaces the clipboard content with text.
func (c *Controller) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// CopyAndPaste copies text and sends Ctrl+V to the focused window.
func (c *Controller) CopyAndPaste(text string) error {
	if err := c.Copy(text); err != nil {
		return err
	}
	time.Sleep(settleDelay)
	if err := sendPaste(); err != nil {
		return fmt.Errorf("send paste keystroke: %w", err)
	}
	return nil
}
