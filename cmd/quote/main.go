package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/nurpe/rfp-quotation/internal/catalog"
	"github.com/nurpe/rfp-quotation/internal/document"
	"github.com/nurpe/rfp-quotation/internal/extractor"
	"github.com/nurpe/rfp-quotation/internal/logger"
	"github.com/nurpe/rfp-quotation/internal/matcher"
	"github.com/nurpe/rfp-quotation/internal/pdf"
	"github.com/nurpe/rfp-quotation/internal/pricer"
	"github.com/nurpe/rfp-quotation/internal/service"
)

func main() {
	catalogFile := flag.String("catalog", "", "YAML catalog file (built-in catalog when empty)")
	pdfOut := flag.String("pdf", "", "write the quotation PDF to this path")
	verbose := flag.Bool("v", false, "log pipeline progress to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <rfp-file>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	log := zerolog.Nop()
	if *verbose {
		log = logger.New("development").Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := run(os.Stdout, flag.Arg(0), *catalogFile, *pdfOut, log); err != nil {
		fmt.Fprintf(os.Stderr, "quote: %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer, path, catalogFile, pdfOut string, log zerolog.Logger) error {
	cat := catalog.Builtin()
	if catalogFile != "" {
		loaded, err := catalog.LoadFile(catalogFile)
		if err != nil {
			return err
		}
		cat = loaded
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	text, err := document.NewReader(nil).ExtractText(filepath.Base(path), data)
	if err != nil {
		return err
	}

	pipeline := service.NewPipeline(extractor.New(), matcher.New(cat), pricer.New(), log)
	result := pipeline.Run(context.Background(), text)

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return err
	}
	if !result.Succeeded() {
		return fmt.Errorf("processing failed: %s", result.Message)
	}

	if pdfOut != "" {
		content, err := pdf.NewGenerator("").Quotation(*result.Quotation)
		if err != nil {
			return err
		}
		if err := os.WriteFile(pdfOut, content, 0o644); err != nil {
			return err
		}
	}
	return nil
}
