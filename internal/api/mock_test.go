package api

import (
	"io"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data   []byte
	pos    int
	closed bool
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data, pos: 0}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// mockHTTPClient is a Doer that records requests and delegates to doFunc
type mockHTTPClient struct {
	mu        sync.Mutex
	doFunc    func(req *fhttp.Request) (*fhttp.Response, error)
	requests  []*fhttp.Request
	bodies    [][]byte
	idleClose int
}

func (m *mockHTTPClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, body)
	fn := m.doFunc
	m.mu.Unlock()

	if fn == nil {
		return jsonResponse(fhttp.StatusOK, `{}`), nil
	}
	return fn(req)
}

func (m *mockHTTPClient) CloseIdleConnections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleClose++
}

func (m *mockHTTPClient) lastRequest() (*fhttp.Request, []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil, nil
	}
	i := len(m.requests) - 1
	return m.requests[i], m.bodies[i]
}

func jsonResponse(status int, body string) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: status,
		Body:       NewMockResponseBody([]byte(body)),
		Header:     make(fhttp.Header),
	}
}

func replyBody(text string) string {
	return `{"candidates":[{"content":{"role":"model","parts":[{"text":` + quoteJSON(text) + `}]},"finishReason":"STOP"}]}`
}
