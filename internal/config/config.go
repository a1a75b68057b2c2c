// Package config loads whitelists from YAML, JSON or HCL files and writes
// them back out.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cshum/cvjsgen/internal/ctxlog"
	"github.com/cshum/cvjsgen/internal/whitelist"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrDuplicateClass    = errors.New("duplicate class")
)

// Format is the serialization of a whitelist file
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatFromPath detects the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// document is the on-disk shape of YAML and JSON files:
// module -> class (or "") -> members
type document map[string]map[string][]string

func (d document) groups() []whitelist.Group {
	groups := make([]whitelist.Group, 0, len(d))
	for module, classes := range d {
		groups = append(groups, whitelist.NewGroup(module, whitelist.Classes(classes)))
	}
	return groups
}

// Load reads a single whitelist file
func Load(ctx context.Context, path string) (whitelist.WhiteList, error) {
	logger := ctxlog.FromContext(ctx)

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	var groups []whitelist.Group
	if format == FormatHCL {
		groups, err = decodeHCL(path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		groups, err = Decode(data, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	wl, err := whitelist.MakeWhiteList(groups...)
	if err != nil {
		return nil, fmt.Errorf("invalid whitelist %s: %w", path, err)
	}
	logger.Debug("Loaded whitelist", "path", path, "modules", len(wl), "members", wl.Len())
	return wl, nil
}

// Decode parses YAML or JSON data into module groups
func Decode(data []byte, format Format) ([]whitelist.Group, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if err := checkJSONKeys(data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return doc.groups(), nil
}

// LoadFiles loads all files concurrently and combines them. A module may
// only be defined in one file.
func LoadFiles(ctx context.Context, paths ...string) (whitelist.WhiteList, error) {
	lists := make([]whitelist.WhiteList, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			wl, err := Load(ctx, path)
			if err != nil {
				return err
			}
			lists[i] = wl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	wl, err := whitelist.Combine(lists...)
	if err != nil {
		return nil, fmt.Errorf("failed to combine %s: %w", strings.Join(paths, ", "), err)
	}
	return wl, nil
}

// LoadDir loads every supported whitelist file found under dir
func LoadDir(ctx context.Context, dir string) (whitelist.WhiteList, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading whitelists from directory", "path", dir)

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, err := FormatFromPath(path); err == nil {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find whitelist files in %s: %w", dir, err)
	}

	if len(files) == 0 {
		logger.Warn("No whitelist files found in path, returning empty whitelist", "path", dir)
		return whitelist.WhiteList{}, nil
	}
	return LoadFiles(ctx, files...)
}

// Encode writes the whitelist as YAML or JSON
func Encode(w io.Writer, wl whitelist.WhiteList, format Format) error {
	doc := make(document, len(wl))
	for module, classes := range wl {
		doc[module] = classes
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}
