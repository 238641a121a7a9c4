package serialport

import (
	"io"
	"sync"
)

// MockPort is an in-memory Port. Reads return ReadData and then io.EOF;
// writes are appended to Written.
type MockPort struct {
	ReadData   []byte
	ReadError  error
	WriteError error
	CloseError error

	mu      sync.Mutex
	written []byte
	closed  bool
}

func (m *MockPort) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadError != nil {
		return 0, m.ReadError
	}

	if m.closed || len(m.ReadData) == 0 {
		return 0, io.EOF
	}

	n := copy(p, m.ReadData)
	m.ReadData = m.ReadData[n:]

	return n, nil
}

func (m *MockPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteError != nil {
		return 0, m.WriteError
	}

	m.written = append(m.written, p...)

	return len(p), nil
}

func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	return m.CloseError
}

// Written returns a copy of everything written so far.
func (m *MockPort) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]byte(nil), m.written...)
}

func (m *MockPort) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}
