package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medocr/internal/service"
)

// MockOCRService is a mock implementation of service.OCRService.
type MockOCRService struct {
	mock.Mock
}

func (m *MockOCRService) Process(ctx context.Context, req service.OCRRequest) (*service.OCRResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OCRResult), args.Error(1)
}
