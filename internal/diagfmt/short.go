package diagfmt

import (
	"fmt"
	"io"

	"scopelint/internal/diag"
	"scopelint/internal/source"
)

// Short prints one `file:LEVEL:ident:line:col: message` line per diagnostic.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) error {
	for _, d := range bag.Items() {
		d.Path = displayPath(&d, fs, mode)
		if _, err := fmt.Fprintln(w, diag.FormatShort(&d)); err != nil {
			return err
		}
	}
	return nil
}
