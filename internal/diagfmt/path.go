package diagfmt

import (
	"scopelint/internal/diag"
	"scopelint/internal/source"
)

// displayPath picks the label of d's file under mode. Diagnostics whose
// file is not in fs keep their own Path.
func displayPath(d *diag.Diagnostic, fs *source.FileSet, mode PathMode) string {
	if fs == nil || mode == PathModeAsGiven {
		return d.Path
	}
	f := fs.Get(d.Primary.File)
	if f == nil {
		return d.Path
	}
	return formatFilePath(f, fs, mode)
}

func formatFilePath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeAsGiven:
		return f.Path
	default:
		return f.FormatPath(mode.String(), "")
	}
}
