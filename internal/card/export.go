package card

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bunkapp/bunk/internal/attendance"
)

// DefaultExportName is the file name, without extension, used by Export.
const DefaultExportName = "attendance-report"

var extensions = map[string]string{
	FormatText:     ".txt",
	FormatJSON:     ".json",
	FormatYAML:     ".yaml",
	FormatMarkdown: ".md",
	FormatHTML:     ".html",
}

// Export renders the card into dir/name.<ext> and returns the written path.
func Export(dir, name, format string, in attendance.Input, result attendance.Result, opts Options) (string, error) {
	ext, ok := extensions[format]
	if !ok {
		return "", fmt.Errorf("unknown export format %q", format)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultExportName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("export name %q must not contain path separators", name)
	}

	// Exports never carry ANSI escapes.
	opts.Color = false

	var buf bytes.Buffer
	if err := Render(&buf, format, in, result, opts); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name+ext)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
