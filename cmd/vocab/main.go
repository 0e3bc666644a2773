package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		printError("vocab: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "vocab",
		Usage: "turn screenshots into English vocabulary and phrase notes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file (env CONFIG_PATH)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug|info|warn|error (overrides LOG_LEVEL)"},
			&cli.StringFlag{Name: "log-format", Usage: "json|text (overrides LOG_FORMAT)"},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "extract learning entries from a screenshot or a directory of screenshots",
				ArgsUsage: "<path>",
				Flags: append(append(outputFlags(), imageFlags()...),
					&cli.StringFlag{Name: "backend", Aliases: []string{"b"}, Usage: "openai|ollama|anthropic (default from config)"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "concurrent images (default from config)"},
					&cli.BoolFlag{Name: "include-hidden", Usage: "also scan hidden files and directories"},
					&cli.StringFlag{Name: "xlsx", Usage: "also write an XLSX workbook to this path"},
				),
				Action: ExtractAction,
			},
			{
				Name:      "text",
				Usage:     "extract learning entries from raw text, skipping OCR",
				ArgsUsage: `"<text>" (or - for stdin)`,
				Flags: append(outputFlags(),
					&cli.StringFlag{Name: "backend", Aliases: []string{"b"}, Usage: "openai|ollama|anthropic (default from config)"},
				),
				Action: TextAction,
			},
			{
				Name:      "compare",
				Usage:     "run two backends on one screenshot and let a judge model compare them",
				ArgsUsage: "<image>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "primary", Value: "openai", Usage: "first backend"},
					&cli.StringFlag{Name: "secondary", Value: "ollama", Usage: "second backend"},
					&cli.StringFlag{Name: "judge", Value: "openai", Usage: "hosted backend that writes the verdict"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "text|json|yaml"},
				},
				Action: CompareAction,
			},
			{
				Name:      "watch",
				Usage:     "process new screenshots as they appear in a directory",
				ArgsUsage: "<dir>",
				Flags: append(append(outputFlags(), imageFlags()...),
					&cli.StringFlag{Name: "backend", Aliases: []string{"b"}, Usage: "openai|ollama|anthropic (default from config)"},
					&cli.DurationFlag{Name: "debounce", Usage: "wait this long after the last write before processing"},
				),
				Action: WatchAction,
			},
			{
				Name:  "export",
				Usage: "write a stored run from the notes database to an XLSX workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "run", Usage: "run id (default the latest run)"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "vocab.xlsx", Usage: "output file"},
				},
				Action: ExportAction,
			},
			{
				Name:   "health",
				Usage:  "check tesseract, the notes database and the Notion database",
				Action: HealthAction,
			},
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "text|json|yaml"},
		&cli.StringSliceFlag{Name: "upload", Aliases: []string{"u"}, Usage: "sinks: none|notion|store (repeat or comma separate)"},
	}
}

// imageFlags is only offered by commands that have a screenshot to upload.
func imageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "image-host", Usage: "image hosts to try in order: imgur|imgbb|telegraph"},
	}
}
