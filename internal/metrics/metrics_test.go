package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	callsCounters   []counterCall
	callsHistograms []histCall
	flushCount      int
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type histCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsCounters = append(f.callsCounters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsHistograms = append(f.callsHistograms, histCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
	return nil
}

func TestRecordStep_SuccessAndFailure(t *testing.T) {
	fb := &fakeBackend{}
	orig := SetBackend(fb)
	defer SetBackend(orig)

	// Success case.
	RecordStep("jobA", "read", nil, 2*time.Second)

	// Failure case.
	err := errors.New("boom")
	RecordStep("jobB", "write", err, 1500*time.Millisecond)

	if len(fb.callsCounters) != 2 {
		t.Fatalf("expected 2 counter calls, got %d", len(fb.callsCounters))
	}
	if len(fb.callsHistograms) != 2 {
		t.Fatalf("expected 2 histogram calls, got %d", len(fb.callsHistograms))
	}

	// First call: success.
	cc0 := fb.callsCounters[0]
	if cc0.name != StepTotal || cc0.delta != 1 {
		t.Fatalf("counter[0] = %#v; want name=ingest_step_total, delta=1", cc0)
	}
	if got := cc0.labels["job"]; got != "jobA" {
		t.Fatalf("counter[0].labels[job]=%q; want %q", got, "jobA")
	}
	if got := cc0.labels["step"]; got != "read" {
		t.Fatalf("counter[0].labels[step]=%q; want %q", got, "read")
	}
	if got := cc0.labels["status"]; got != "success" {
		t.Fatalf("counter[0].labels[status]=%q; want %q", got, "success")
	}

	h0 := fb.callsHistograms[0]
	if h0.name != StepDurationSeconds {
		t.Fatalf("hist[0].name=%q; want ingest_step_duration_seconds", h0.name)
	}
	if h0.value < 2.0-0.001 || h0.value > 2.0+0.001 {
		t.Fatalf("hist[0].value=%v; want ~2.0", h0.value)
	}

	// Second call: failure.
	cc1 := fb.callsCounters[1]
	if cc1.labels["job"] != "jobB" || cc1.labels["step"] != "write" {
		t.Fatalf("counter[1] labels job/step = %v; want jobB/write", cc1.labels)
	}
	if cc1.labels["status"] != "failure" {
		t.Fatalf("counter[1].labels[status]=%q; want %q", cc1.labels["status"], "failure")
	}

	h1 := fb.callsHistograms[1]
	if h1.value < 1.5-0.001 || h1.value > 1.5+0.001 {
		t.Fatalf("hist[1].value=%v; want ~1.5", h1.value)
	}
}

func TestRecordRowAndBatches(t *testing.T) {
	fb := &fakeBackend{}
	orig := SetBackend(fb)
	defer SetBackend(orig)

	RecordRow("jobX", "read", 3)
	RecordRow("jobX", "read", 0) // should be ignored
	RecordRow("jobY", "inserted", 5)
	RecordBatches("jobZ", 2)
	RecordBatches("jobZ", -1) // ignored

	if len(fb.callsCounters) != 3 {
		t.Fatalf("expected 3 counter calls, got %d", len(fb.callsCounters))
	}

	// 1) read
	c0 := fb.callsCounters[0]
	if c0.name != RecordsTotal || c0.delta != 3 {
		t.Fatalf("counter[0] = %#v; want name=ingest_records_total, delta=3", c0)
	}
	if c0.labels["job"] != "jobX" || c0.labels["kind"] != "read" {
		t.Fatalf("counter[0] labels = %v; want job=jobX, kind=read", c0.labels)
	}

	// 2) inserted
	c1 := fb.callsCounters[1]
	if c1.name != RecordsTotal || c1.delta != 5 {
		t.Fatalf("counter[1] = %#v; want name=ingest_records_total, delta=5", c1)
	}
	if c1.labels["job"] != "jobY" || c1.labels["kind"] != "inserted" {
		t.Fatalf("counter[1] labels = %v; want job=jobY, kind=inserted", c1.labels)
	}

	// 3) batches
	c2 := fb.callsCounters[2]
	if c2.name != ChunksTotal || c2.delta != 2 {
		t.Fatalf("counter[2] = %#v; want name=ingest_chunks_total, delta=2", c2)
	}
	if c2.labels["job"] != "jobZ" {
		t.Fatalf("counter[2].labels[job]=%q; want %q", c2.labels["job"], "jobZ")
	}
}

func TestSetBackendAndFlush(t *testing.T) {
	fb := &fakeBackend{}
	orig := SetBackend(fb)
	defer SetBackend(orig)

	if current() != fb {
		t.Fatal("SetBackend did not replace global backend")
	}
	if err := Flush(); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}
	if fb.flushCount != 1 {
		t.Fatalf("expected flushCount=1, got %d", fb.flushCount)
	}

	// SetBackend(nil) keeps the backend and still reports it as previous.
	if prev := SetBackend(nil); prev != fb || current() != fb {
		t.Fatal("SetBackend(nil) should not change backend")
	}
}

func TestNopBackendIsDefault(t *testing.T) {
	orig := SetBackend(nopBackend{})
	defer SetBackend(orig)

	// Must not panic and must not fail.
	RecordStep("j", "chunk", nil, time.Millisecond)
	RecordRow("j", "inserted", 10)
	RecordBatches("j", 1)
	if err := Flush(); err != nil {
		t.Fatalf("nop Flush = %v", err)
	}
}
