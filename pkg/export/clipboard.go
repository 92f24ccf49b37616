package export

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// CopyToClipboard places text on the system clipboard. Failures are
// transient from the caller's perspective and never affect workspace
// state.
func CopyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
