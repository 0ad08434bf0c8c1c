package services

import (
	"sync"
)

// SentEmail records one delivery attempt made through the mock
type SentEmail struct {
	To       string
	Kind     string // "confirmation" or "notification"
	OrderID  uint
	Customer string
	Batch    string
	Items    []OrderEmailItem
	Total    float64
	Notes    string
}

// MockEmailService is a mock implementation of the Mailer for testing.
// It records every send and returns a configurable outcome.
type MockEmailService struct {
	SendResult bool // outcome reported for every send
	sent       []SentEmail
	mu         sync.Mutex
}

// NewMockEmailService creates a new mock mailer that reports successful sends
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{SendResult: true}
}

// SetAsMockForTesting sets this mock as the global email service instance for testing
func (m *MockEmailService) SetAsMockForTesting() {
	SetEmailService(m)
}

// SendOrderConfirmation records a customer confirmation send
func (m *MockEmailService) SendOrderConfirmation(toEmail, customerName string, orderID uint, batchName, pickupInfo string, items []OrderEmailItem, total float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, SentEmail{
		To:       toEmail,
		Kind:     "confirmation",
		OrderID:  orderID,
		Customer: customerName,
		Batch:    batchName,
		Items:    items,
		Total:    total,
	})
	return m.SendResult
}

// SendOrderNotification records an admin notification send
func (m *MockEmailService) SendOrderNotification(orderID uint, customerName, customerPhone, customerEmail, batchName, pickupInfo string, items []OrderEmailItem, total float64, notes string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, SentEmail{
		Kind:     "notification",
		OrderID:  orderID,
		Customer: customerName,
		Batch:    batchName,
		Items:    items,
		Total:    total,
		Notes:    notes,
	})
	return m.SendResult
}

// Sent returns a copy of all recorded sends
func (m *MockEmailService) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}
