package report

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed methodology.md
var methodology []byte

// Methodology returns the calculation notes as Markdown.
func Methodology() string {
	return string(methodology)
}

// MethodologyHTML renders the calculation notes to HTML.
func MethodologyHTML() ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert(methodology, &buf); err != nil {
		return nil, fmt.Errorf("failed to render methodology: %w", err)
	}
	return buf.Bytes(), nil
}
