package render

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/citescope/citescope/pkg/errors"
	"github.com/citescope/citescope/pkg/observability"
)

// ExportFilename builds the deterministic export name from the active
// graph's tool name and the export timestamp:
//
//	<sanitized tool_name>_<YYYYMMDD_HHMMSS>.png
func ExportFilename(toolName string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.png", sanitizeName(toolName), ts.Format("20060102_150405"))
}

// ExportPNG writes the current canvas pixels to a PNG in dir, named by
// [ExportFilename]. Failures are recoverable: the caller surfaces the
// EXPORT_FAILED error as a notice and rendering state is untouched.
func ExportPNG(ctx context.Context, img image.Image, dir, toolName string, ts time.Time) (string, error) {
	path := filepath.Join(dir, ExportFilename(toolName, ts))

	if err := os.MkdirAll(dir, 0755); err != nil {
		observability.Render().OnExport(ctx, path, err)
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "create export dir %s", dir)
	}

	f, err := os.Create(path)
	if err != nil {
		observability.Render().OnExport(ctx, path, err)
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "create %s", path)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		observability.Render().OnExport(ctx, path, err)
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "encode %s", path)
	}

	observability.Render().OnExport(ctx, path, nil)
	return path, nil
}

// sanitizeName lowercases the tool name and replaces anything outside
// [a-z0-9_-] with underscores, collapsing runs. Empty names fall back to
// "graph".
func sanitizeName(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "graph"
	}
	return out
}
