package domain

import (
	"context"

	"scrubber/internal/core/detect"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Detect(ctx context.Context, in DetectInput) (DetectReport, error)
	Redact(ctx context.Context, in RedactInput) (RedactReport, error)
	Reverse(ctx context.Context, in ReverseInput) (ReverseReport, error)

	Stats(ctx context.Context) (detect.Snapshot, error)
	ResetStats(ctx context.Context) error

	AddPattern(ctx context.Context, in PatternInput) error
	RemovePattern(ctx context.Context, name string) error
	Patterns(ctx context.Context) (PatternList, error)
}
