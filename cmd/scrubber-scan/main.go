// Command scrubber-scan detects or redacts PII in text from stdin (or
// -text) and prints the JSON report
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"scrubber/internal/core/version"
	"scrubber/internal/platform/config"
	"scrubber/internal/platform/logger"
	"scrubber/internal/services/scan/domain"
	scansvc "scrubber/internal/services/scan/service"
)

func main() {
	_ = godotenv.Load()

	var (
		text      = flag.String("text", "", "text to scan; reads stdin when empty")
		mode      = flag.String("mode", "detect", "detect or redact")
		strategy  = flag.String("strategy", "", "redaction strategy (redact mode)")
		steps     = flag.String("steps", "", "comma separated normalization steps")
		types     = flag.String("types", "", "comma separated entity types to keep")
		detectors = flag.String("detectors", "", "comma separated detector names")
		minConf   = flag.Float64("min-confidence", 0, "candidate confidence floor")
		pretty    = flag.Bool("pretty", true, "indent the JSON report")
		showVer   = flag.Bool("version", false, "print build info and exit")
	)
	flag.Parse()

	if *showVer {
		info := version.Info()
		fmt.Printf("%s %s (%s, %s)\n", info.Service, info.Version, info.Commit, info.Date)
		return
	}

	logger.Init(logger.FromEnv())
	l := logger.Get()

	input := *text
	if input == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			l.Panic().Err(err).Msg("reading stdin")
		}
		input = string(raw)
	}
	if strings.TrimSpace(input) == "" {
		fmt.Fprintln(os.Stderr, "nothing to scan")
		os.Exit(2)
	}

	scanCfg := config.New().Prefix("SCRUBBER_SCAN_")
	svc, err := scansvc.New(scansvc.Config{
		TokenSecret:     scanCfg.MayString("TOKEN_SECRET", ""),
		MergeThreshold:  scanCfg.MayFloat64("MERGE_THRESHOLD", 0.7),
		MinConfidence:   scanCfg.MayFloat64("MIN_CONFIDENCE", 0.5),
		DetectorTimeout: scanCfg.MayDuration("DETECTOR_TIMEOUT", 2*time.Second),
	})
	if err != nil {
		l.Panic().Err(err).Msg("building scan service")
	}

	in := domain.DetectInput{
		Text:          input,
		Steps:         splitCSV(*steps),
		Types:         splitCSV(*types),
		Detectors:     splitCSV(*detectors),
		MinConfidence: *minConf,
	}

	ctx := context.Background()
	var report any
	switch *mode {
	case "detect":
		report, err = svc.Detect(ctx, in)
	case "redact":
		report, err = svc.Redact(ctx, domain.RedactInput{DetectInput: in, Strategy: *strategy})
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		l.Panic().Err(err).Msg("encoding report")
	}
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
