// Command dockit compresses a document into an exam portal's upload budget.
//
// Budgets come either from a named exam preset:
//
//	dockit -exam ibps-po -type photograph photo.jpg upload.jpg
//
// or from explicit flags:
//
//	dockit -max-kb 50 -min-kb 20 -dims 200x230 -doc photo photo.png upload.jpg
//
// The output format follows -target when given, otherwise the output file
// extension.  -trace prints the full audit trail after the run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	dockit "github.com/AbhinavPrakashCoading/Dockit-sub000"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/config"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	apperrors "github.com/AbhinavPrakashCoading/Dockit-sub000/errors"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/hooks"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/schema"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/utils"
)

const (
	exitUsage   = 2
	exitBudget  = 3
	exitTimeout = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		examName    = flag.String("exam", "", "exam preset to look up (e.g. ibps-po, ssc-cgl, upsc)")
		docSlot     = flag.String("type", schema.Photograph, "document slot within the preset")
		maxKB       = flag.Int("max-kb", 0, "hard output ceiling in KB (overrides the preset)")
		minKB       = flag.Int("min-kb", 0, "optional lower bound in KB")
		target      = flag.String("target", "", "target format (jpeg, png, webp, pdf or a MIME type)")
		dims        = flag.String("dims", "", "target dimensions as WxH, e.g. 200x230")
		docType     = flag.String("doc", "", "document class: signature, photo, generic-document, id-proof")
		configPath  = flag.String("config", "", "YAML config file")
		trace       = flag.Bool("trace", false, "print the audit trail after the run")
		printSchema = flag.Bool("schema", false, "print the resolved exam schema as JSON and exit")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsage
		}
		cfg = loaded
	}

	if *printSchema {
		if *examName == "" {
			fmt.Fprintln(os.Stderr, "-schema requires -exam")
			return exitUsage
		}
		out, err := json.MarshalIndent(schema.Lookup(*examName), "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <input> <output>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		return exitUsage
	}
	inPath, outPath := flag.Arg(0), flag.Arg(1)

	source, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	req, err := buildRequest(source, *examName, *docSlot, outPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	applyOverrides(req, *maxKB, *minKB, *target, *dims, *docType)

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failure is not actionable

	t := dockit.New(cfg)
	t.SetLogger(hooks.NewZapLogger(logger))
	if *trace {
		t.AddHook(hooks.NewLoggingHook(hooks.NewZapLogger(logger)))
	}

	result, report, err := t.Transform(context.Background(), req)
	if *trace && report != nil {
		printTrace(report)
	}
	if err != nil {
		return printFailure(err)
	}

	if err := os.WriteFile(outPath, result.Data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printSummary(outPath, result, report)
	return 0
}

// buildRequest resolves the starting request, either from an exam preset or
// from the bare source bytes.
func buildRequest(source []byte, examName, docSlot, outPath string) (*core.TransformRequest, error) {
	if examName != "" {
		return schema.Lookup(examName).Build(source, docSlot)
	}
	req := dockit.NewRequest(source, mimeFromPath(outPath), 0)
	return req, nil
}

// applyOverrides lets explicit flags win over preset values.
func applyOverrides(req *core.TransformRequest, maxKB, minKB int, target, dims, docType string) {
	if maxKB > 0 {
		req.MaxSizeKB = maxKB
	}
	if minKB > 0 {
		req.MinSizeKB = minKB
	}
	if target != "" {
		req.TargetMIME = normalizeTarget(target)
	}
	if dims != "" {
		if w, h, err := utils.ParseDimensions(dims); err == nil {
			req.TargetDimensions = &core.Dimensions{Width: w, Height: h}
		}
	}
	if docType != "" {
		req.DocumentType = core.DocumentType(docType)
	}
}

func printSummary(outPath string, result *core.TransformResult, report *core.TransformReport) {
	fmt.Printf("%s  %s  %d KB (was %d KB, ratio %.2f)  quality %d%%  scale %d%%  tier %s\n",
		outPath, result.MIME, result.SizeKB,
		report.OriginalSizeKB, report.CompressionRatio,
		report.QualityPercent, report.ScalePercent, report.Tier)
	if report.PreviewRequired {
		fmt.Println("warning: quality degraded significantly; review the output before uploading")
	} else if report.PreviewOptional {
		fmt.Println("note: visible compression applied; a quick review is recommended")
	}
	if report.Overcompressed {
		fmt.Println("note: output is well below the budget; a gentler setting may look better")
	}
}

func printFailure(err error) int {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	for _, s := range apperrors.SuggestionsOf(err) {
		fmt.Fprintf(os.Stderr, "  hint: %s\n", s)
	}
	switch {
	case apperrors.IsCategory(err, apperrors.CategoryValidation):
		return exitUsage
	case apperrors.IsCategory(err, apperrors.CategoryBudget):
		return exitBudget
	case apperrors.IsRetryable(err):
		return exitTimeout
	default:
		return 1
	}
}

func printTrace(report *core.TransformReport) {
	fmt.Fprintf(os.Stderr, "── report %s (%s)\n", report.ID, report.ExamContext)
	for _, step := range report.Steps {
		fmt.Fprintf(os.Stderr, "  %s\n", step)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "  warning: %s\n", w)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil && level != "" {
		cfg.Level = lvl
	}
	return cfg.Build()
}

// mimeFromPath derives the target MIME from the output file extension.
func mimeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "image/jpeg"
	}
}

func normalizeTarget(t string) string {
	if strings.Contains(t, "/") {
		return t
	}
	return mimeFromPath("." + strings.TrimPrefix(t, "."))
}
