// Package api provides the HTTP API for the application
package api

import (
	"net/http"
	"time"

	"scrubber/internal/core/version"
	"scrubber/internal/platform/config"
	"scrubber/internal/platform/logger"
	phttp "scrubber/internal/platform/net/http"
	"scrubber/internal/platform/net/middleware"

	scanhttp "scrubber/internal/services/scan/http"
	scansvc "scrubber/internal/services/scan/service"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Logger *logger.Logger
}

// Mount builds the scan service and mounts the versioned API with the
// common middleware stack. The returned service lets embedders (the CLI,
// tests) reuse the same wiring without HTTP
func Mount(r phttp.Router, opt Options) (scansvc.Service, error) {
	scanCfg := scanCfgFromEnv(opt.Config)
	svc, err := scansvc.New(scanCfg)
	if err != nil {
		return nil, err
	}

	r.Use(middleware.Defaults()...)
	r.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: opt.Config.MayCSV("CORS_ORIGINS", []string{"*"}),
	}))
	r.Use(middleware.Heartbeat("/healthz"))
	r.Use(middleware.AccessLog(middleware.AccessLogOptions{
		Slow: opt.Config.MayDuration("HTTP_SLOW_REQUEST", 2*time.Second),
	}))

	r.Route("/api/v1", func(api phttp.Router) {
		phttp.GetJSON(api, "/version", func(*http.Request) (any, error) {
			return version.Info(), nil
		})
		api.Route("/scan", func(scan phttp.Router) {
			scanhttp.Register(scan, svc)
		})
	})
	return svc, nil
}

func scanCfgFromEnv(cfg config.Conf) scansvc.Config {
	scan := cfg.Prefix("SCAN_")
	return scansvc.Config{
		TokenSecret:     scan.MayString("TOKEN_SECRET", ""),
		MergeThreshold:  scan.MayFloat64("MERGE_THRESHOLD", 0.7),
		MinConfidence:   scan.MayFloat64("MIN_CONFIDENCE", 0.5),
		DetectorTimeout: scan.MayDuration("DETECTOR_TIMEOUT", 2*time.Second),
	}
}
