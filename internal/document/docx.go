package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lukasjarosch/go-docx"

	"github.com/littleRiceZhou/auto-aspen/internal/report"
)

const ContentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Fill reads a docx template from r and writes it to w with every
// {auto_aspen_N} placeholder in the body, headers and footers replaced.
// Placeholders split across runs by the editor are matched as well.
func Fill(r io.Reader, w io.Writer, tokens map[string]string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	doc, err := docx.OpenBytes(data)
	if err != nil {
		return fmt.Errorf("failed to open docx package: %w", err)
	}

	for _, key := range report.SortedKeys(tokens) {
		if err := doc.ReplaceAll(docx.PlaceholderMap{key: escape(tokens[key])}); err != nil {
			return fmt.Errorf("failed to replace %s: %w", key, err)
		}
	}
	return doc.Write(w)
}

// FillTemplate fills the template at templatePath and writes the result to
// outPath, creating its directory.
func FillTemplate(templatePath, outPath string, tokens map[string]string) error {
	in, err := os.Open(templatePath)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}

	if err := Fill(in, out, tokens); err != nil {
		out.Close()
		os.Remove(outPath)
		return err
	}
	return out.Close()
}
