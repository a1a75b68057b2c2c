package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/cshum/cvjsgen/internal/config"
	"github.com/cshum/cvjsgen/internal/ctxlog"
	"github.com/cshum/cvjsgen/internal/generator"
	"github.com/cshum/cvjsgen/internal/whitelist"
)

// stringList collects a repeatable flag
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type options struct {
	configFiles []string
	configDir   string
	extract     bool
	extractDir  string
	outputDir   string
	templateDir string
	dumpFormat  string
	checkOnly   bool
}

func main() {
	var opts options
	var configFiles stringList
	flag.Var(&configFiles, "config", "Whitelist file (.yaml, .yml, .json, .hcl), may be repeated")
	flag.StringVar(&opts.configDir, "config-dir", "", "Directory to load all whitelist files from")
	flag.BoolVar(&opts.extract, "extract", false, "Extract embedded templates to a directory")
	flag.StringVar(&opts.extractDir, "extract-dir", "./templates", "Directory to extract templates to")
	flag.StringVar(&opts.outputDir, "out", "./out", "Output directory")
	flag.StringVar(&opts.templateDir, "templates", "", "Template directory (uses embedded templates if not specified)")
	flag.StringVar(&opts.dumpFormat, "dump", "", "Print the merged whitelist to stdout as yaml or json and exit")
	flag.BoolVar(&opts.checkOnly, "check", false, "Validate the whitelist and exit, combined with -dump prints it afterwards")
	verbose := flag.Bool("v", false, "Enable debug logging")

	flag.Parse()
	opts.configFiles = configFiles
	if flag.NArg() > 0 {
		opts.outputDir = flag.Arg(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	logger := ctxlog.FromContext(ctx)

	if opts.extract {
		files, err := generator.ExtractTemplates(opts.extractDir)
		if err != nil {
			return fmt.Errorf("failed to extract templates: %w", err)
		}
		for _, file := range files {
			logger.Info("Extracted template", "path", file)
		}
		fmt.Fprintf(stdout, "Templates extracted to: %s\n", opts.extractDir)
		return nil
	}

	wl, err := loadWhiteList(ctx, opts.configFiles, opts.configDir)
	if err != nil {
		return fmt.Errorf("failed to load whitelist: %w", err)
	}
	logger.Info("Loaded whitelist", "modules", len(wl), "members", wl.Len())

	if opts.checkOnly {
		fmt.Fprintf(stdout, "Whitelist OK: %d modules, %d members\n", len(wl), wl.Len())
	}
	if opts.dumpFormat != "" {
		if err := config.Encode(stdout, wl, config.Format(opts.dumpFormat)); err != nil {
			return fmt.Errorf("failed to dump whitelist: %w", err)
		}
	}
	if opts.checkOnly || opts.dumpFormat != "" {
		return nil
	}

	var loader generator.TemplateLoader
	funcMap := generator.GetTemplateFuncMap()
	if opts.templateDir != "" {
		loader, err = generator.NewOSTemplateLoader(opts.templateDir, funcMap)
		if err != nil {
			return fmt.Errorf("failed to create template loader: %w", err)
		}
		logger.Info("Using templates", "dir", opts.templateDir)
	} else {
		loader = generator.NewEmbeddedTemplateLoader(funcMap)
		logger.Debug("Using embedded templates")
	}

	files, err := generator.Generate(ctx, loader, generator.NewTemplateData(wl), opts.outputDir)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	for _, file := range files {
		fmt.Fprintf(stdout, "  - %s\n", file)
	}
	return nil
}

// loadWhiteList reads the configured files, or falls back to the built in
// OpenCV.js whitelist when none are given.
func loadWhiteList(ctx context.Context, files []string, dir string) (whitelist.WhiteList, error) {
	var lists []whitelist.WhiteList
	if len(files) > 0 {
		wl, err := config.LoadFiles(ctx, files...)
		if err != nil {
			return nil, err
		}
		lists = append(lists, wl)
	}
	if dir != "" {
		wl, err := config.LoadDir(ctx, dir)
		if err != nil {
			return nil, err
		}
		lists = append(lists, wl)
	}
	if len(lists) == 0 {
		ctxlog.FromContext(ctx).Debug("No whitelist files given, using built in OpenCV.js whitelist")
		return whitelist.OpenCVJS(), nil
	}
	return whitelist.Combine(lists...)
}
