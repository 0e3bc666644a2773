package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
	"github.com/joseph-ayodele/screenshot-vocab/internal/ocr"
)

// runocr prints what tesseract sees in one screenshot, for tuning OCR settings.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: runocr <image>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg, err := common.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := common.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	x := ocr.NewExtractor(ocr.Config{
		Tesseract:           cfg.OCR.Tesseract,
		Lang:                cfg.OCR.Lang,
		TessdataDir:         cfg.OCR.TessdataDir,
		PSM:                 cfg.OCR.PSM,
		OEM:                 cfg.OCR.OEM,
		EnableTSVConfidence: true,
		Clean:               cfg.OCR.Clean,
		DetectLanguage:      cfg.OCR.DetectLang,
	}, logger)

	res, err := x.Extract(ctx, path)
	if err != nil {
		logger.Error("ocr.extract.failed", "path", path, "error", err)
		os.Exit(1)
	}

	fmt.Printf("method:     %s\n", res.Method)
	fmt.Printf("language:   %s (detected %q)\n", res.Language, res.DetectedLanguage)
	fmt.Printf("confidence: %.2f\n", res.Confidence)
	fmt.Printf("words:      %d\n", ocr.WordCount(res.Text))
	fmt.Printf("duration:   %s\n", res.Duration.Round(time.Millisecond))
	for _, w := range res.Warnings {
		fmt.Printf("warning:    %s\n", w)
	}
	fmt.Println("----")
	fmt.Println(res.Text)
}
