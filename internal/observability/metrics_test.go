package observability

import (
	"testing"
	"time"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tours", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/tours", "GET", 200, 7*time.Millisecond)
	m.RecordRequest("/tours/1", "GET", 404, time.Millisecond)
	m.RecordError("/tours/1", "GET", "NOT_FOUND")

	requests, errorCounts := m.Snapshot()
	if requests["/tours|GET|200"] != 2 {
		t.Fatalf("expected 2 requests for /tours, got %d", requests["/tours|GET|200"])
	}
	if requests["/tours/1|GET|404"] != 1 {
		t.Fatalf("expected 1 request for /tours/1, got %d", requests["/tours/1|GET|404"])
	}
	if errorCounts["/tours/1|GET|NOT_FOUND"] != 1 {
		t.Fatalf("expected 1 error, got %d", errorCounts["/tours/1|GET|NOT_FOUND"])
	}

	// the snapshot is a copy; mutating it must not touch live counters
	requests["/tours|GET|200"] = 99
	fresh, _ := m.Snapshot()
	if fresh["/tours|GET|200"] != 2 {
		t.Fatalf("snapshot mutation leaked into live counters: %d", fresh["/tours|GET|200"])
	}
}

func TestMetricsNilReceiverSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/tours", "GET", 200, time.Millisecond)
	m.RecordError("/tours", "GET", "INTERNAL_ERROR")
}
