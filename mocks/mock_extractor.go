package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medocr/internal/domain"
	"medocr/internal/port"
)

// MockExtractor is a mock implementation of port.Extractor.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, payload domain.NormalizedPayload, opts port.RequestOptions) (*port.ExtractOutput, error) {
	args := m.Called(ctx, payload, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ExtractOutput), args.Error(1)
}
