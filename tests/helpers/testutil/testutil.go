// Package testutil provides testing utilities and helpers for gateway tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/FrameLink/backend/internal/messaging"
)

// MockFrame is a mock implementation of transport.Frame for testing.
type MockFrame struct {
	mock.Mock
}

// ID mocks the ID method.
func (m *MockFrame) ID() string {
	args := m.Called()
	return args.String(0)
}

// Origin mocks the Origin method.
func (m *MockFrame) Origin() string {
	args := m.Called()
	return args.String(0)
}

// Deliver mocks the Deliver method.
func (m *MockFrame) Deliver(payload []byte, targetOrigin string) error {
	args := m.Called(payload, targetOrigin)
	return args.Error(0)
}

// NewMockFrame creates a mock frame with default behaviors: a fixed
// identity and deliveries that always succeed.
func NewMockFrame(t *testing.T, frameID, origin string) *MockFrame {
	t.Helper()
	m := new(MockFrame)

	m.On("ID").Return(frameID).Maybe()
	m.On("Origin").Return(origin).Maybe()
	m.On("Deliver", mock.Anything, mock.Anything).Return(nil).Maybe()

	return m
}

// Envelope serializes a wire envelope, failing the test on error.
func Envelope(t *testing.T, msgType string, data any, targetOrigin string) []byte {
	t.Helper()
	payload, err := messaging.Envelope{
		Type:    msgType,
		Data:    data,
		Options: messaging.Options{TargetOrigin: targetOrigin},
	}.Encode()
	require.NoError(t, err)
	return payload
}
