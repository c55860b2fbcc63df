package service

import (
	"context"

	"github.com/godilite/collab-dashboard/internal/survey"
)

// BundleSource loads the static dataset served for the lifetime of the process.
type BundleSource interface {
	Load(ctx context.Context) (*survey.Bundle, error)
}
