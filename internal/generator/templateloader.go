package generator

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed templates/*.tmpl
var EmbeddedTemplates embed.FS

// TemplateLoader resolves and renders whitelist templates
type TemplateLoader interface {
	// LoadTemplate loads a template by name
	LoadTemplate(name string) (*template.Template, error)

	// ListFiles returns a list of all template files
	ListFiles() ([]string, error)

	// Execute renders a template into w
	Execute(w io.Writer, templateName string, data interface{}) error

	// GenerateFile renders a template into outputFile
	GenerateFile(templateName, outputFile string, data interface{}) error
}

// FSTemplateLoader reads *.tmpl files from the root of an fs.FS
type FSTemplateLoader struct {
	fs      fs.FS
	funcMap template.FuncMap
}

// NewFSTemplateLoader creates a new template loader from any fs.FS implementation
func NewFSTemplateLoader(filesystem fs.FS, funcMap template.FuncMap) TemplateLoader {
	return &FSTemplateLoader{fs: filesystem, funcMap: funcMap}
}

// NewEmbeddedTemplateLoader uses the templates compiled into the binary
func NewEmbeddedTemplateLoader(funcMap template.FuncMap) TemplateLoader {
	return NewFSTemplateLoader(embeddedRoot(), funcMap)
}

// NewOSTemplateLoader reads templates from rootDir, typically a directory
// populated by ExtractTemplates and then customised.
func NewOSTemplateLoader(rootDir string, funcMap template.FuncMap) (TemplateLoader, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("template directory %s: %w", rootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory %s: not a directory", rootDir)
	}
	return NewFSTemplateLoader(os.DirFS(rootDir), funcMap), nil
}

func embeddedRoot() fs.FS {
	sub, err := fs.Sub(EmbeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

func (t *FSTemplateLoader) LoadTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(t.fs, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}
	tmpl, err := template.New(name).Funcs(t.funcMap).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return tmpl, nil
}

// ListFiles returns the *.tmpl files at the root, in lexical order
func (t *FSTemplateLoader) ListFiles() ([]string, error) {
	names, err := fs.Glob(t.fs, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to list template files: %w", err)
	}
	return names, nil
}

func (t *FSTemplateLoader) Execute(w io.Writer, templateName string, data interface{}) error {
	tmpl, err := t.LoadTemplate(templateName)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return nil
}

// GenerateFile renders into memory first, so a template that fails to parse
// or execute leaves no output file behind.
func (t *FSTemplateLoader) GenerateFile(templateName, outputFile string, data interface{}) error {
	var buf bytes.Buffer
	if err := t.Execute(&buf, templateName, data); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputFile, err)
	}
	return nil
}

// ExtractTemplates copies the embedded templates into destDir so they can
// be edited and passed back with NewOSTemplateLoader.
func ExtractTemplates(destDir string) ([]string, error) {
	root := embeddedRoot()
	names, err := fs.Glob(root, "*.tmpl")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	extracted := make([]string, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(root, name)
		if err != nil {
			return extracted, err
		}
		outPath := filepath.Join(destDir, name)
		if err := os.WriteFile(outPath, content, 0644); err != nil {
			return extracted, fmt.Errorf("failed to write template %s: %w", outPath, err)
		}
		extracted = append(extracted, outPath)
	}
	return extracted, nil
}
