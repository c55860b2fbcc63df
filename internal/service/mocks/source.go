package mocks

import (
	"context"
	"errors"

	"github.com/godilite/collab-dashboard/internal/survey"
)

// MockBundleSource is a mock implementation of the BundleSource interface
// for testing the service layer.
type MockBundleSource struct {
	LoadFunc func(ctx context.Context) (*survey.Bundle, error)
}

// Load implements the BundleSource interface
func (m *MockBundleSource) Load(ctx context.Context) (*survey.Bundle, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return nil, errors.New("LoadFunc not implemented")
}
