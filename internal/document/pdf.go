package document

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const ContentTypePDF = "application/pdf"

// ConvertToPDF converts a docx file with LibreOffice in headless mode and
// returns the path of the PDF written to outDir.
func ConvertToPDF(ctx context.Context, soffice, docxPath, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, soffice, "--headless", "--convert-to", "pdf", "--outdir", outDir, docxPath)
	out, err := cmd.CombinedOutput()
	zap.S().Named("document").Debugw("soffice finished", "docx", docxPath, "output", strings.TrimSpace(string(out)))
	if err != nil {
		return "", fmt.Errorf("pdf conversion failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	base := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	pdfPath := filepath.Join(outDir, base+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("pdf conversion produced no output: %w", err)
	}
	return pdfPath, nil
}
