package request

import (
	"bytes"
	"testing"
)

func TestStatus_String(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusPending, "pending"},
		{StatusProcessing, "processing"},
		{StatusCompleted, "completed"},
		{StatusError, "error"},
		{StatusTimeout, "timeout"},
		{Status(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.status.String(); got != c.want {
			t.Errorf("Status(%d).String() = %q, want %q", c.status, got, c.want)
		}
	}
}

func TestRequest_SendResponse(t *testing.T) {
	req := &Request{respCap: 8, done: make(chan struct{})}

	req.SendResponse([]byte("pong"))
	if req.Status() != StatusCompleted {
		t.Fatalf("expected completed, got %v", req.Status())
	}
	if !bytes.Equal(req.resp, []byte("pong")) {
		t.Errorf("unexpected response %q", req.resp)
	}
}

func TestRequest_SendResponseTruncates(t *testing.T) {
	req := &Request{respCap: 4, done: make(chan struct{})}

	req.SendResponse([]byte("longer-than-cap"))
	if !bytes.Equal(req.resp, []byte("long")) {
		t.Errorf("expected truncation to %q, got %q", "long", req.resp)
	}
}

func TestRequest_SendResponseZeroCap(t *testing.T) {
	req := &Request{respCap: 0, done: make(chan struct{})}

	req.SendResponse([]byte("discarded"))
	if req.resp != nil {
		t.Errorf("expected nil response with zero capacity, got %q", req.resp)
	}
	if req.Status() != StatusCompleted {
		t.Errorf("expected completed, got %v", req.Status())
	}
}

func TestRequest_SendError(t *testing.T) {
	req := &Request{respCap: 8, done: make(chan struct{})}

	req.SendError()
	if req.Status() != StatusError {
		t.Errorf("expected error status, got %v", req.Status())
	}
	if req.resp != nil {
		t.Errorf("expected no response, got %q", req.resp)
	}
}
