package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cshum/cvjsgen/internal/ctxlog"
)

// Generate renders every template into outputDir and returns the written
// files. "opencv_js.config.py.tmpl" becomes "opencv_js.config.py".
func Generate(
	ctx context.Context,
	templateLoader TemplateLoader,
	templateData *TemplateData,
	outputDir string,
) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	templateFiles, err := templateLoader.ListFiles()
	if err != nil {
		return nil, err
	}

	var generatedFiles []string
	for _, templateFile := range templateFiles {
		if err := ctx.Err(); err != nil {
			return generatedFiles, err
		}

		outputFile := filepath.Join(outputDir, strings.TrimSuffix(filepath.Base(templateFile), ".tmpl"))
		if err := templateLoader.GenerateFile(templateFile, outputFile, templateData); err != nil {
			return generatedFiles, fmt.Errorf("failed to generate %s: %w", outputFile, err)
		}
		logger.Debug("Generated file", "template", templateFile, "path", outputFile)
		generatedFiles = append(generatedFiles, outputFile)
	}

	logger.Info("Successfully generated files from templates", "count", len(generatedFiles), "dir", outputDir)
	return generatedFiles, nil
}
