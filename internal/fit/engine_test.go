package fit

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"cv-builder/internal/model"
)

func TestClassifyBoundary(t *testing.T) {
	cases := []struct {
		height float64
		want   bool
	}{
		{1000, false},
		{1122.0, false},   // exactly at the constant is still standard
		{1122.0001, true}, // one sliver over is extended
		{2500, true},
		{0, false},
	}
	for _, c := range cases {
		if got := Classify(c.height); got != c.want {
			t.Errorf("Classify(%v) = %v, want %v", c.height, got, c.want)
		}
	}
}

// fakeMeasurer returns a height derived from the document content and can
// stall to simulate slow layout settling.
type fakeMeasurer struct {
	mu    sync.Mutex
	delay time.Duration
	calls int
}

func (f *fakeMeasurer) MeasureHeight(ctx context.Context, html string) (float64, error) {
	f.mu.Lock()
	f.calls++
	delay := f.delay
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if strings.Contains(html, "LONGDOC") {
		return 2000, nil
	}
	return 600, nil
}

func (f *fakeMeasurer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func docWithSummary(summary string) *model.Document {
	doc := model.NewDocument()
	doc.CVData.PersonalData.FirstName = "Ana"
	doc.CVData.Profile.Summary = summary
	return doc
}

func waitForResult(t *testing.T, p *Previewer, version uint64) Result {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if res, ok := p.Result(); ok && res.Version == version {
			return res
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("previewer never settled")
	return Result{}
}

func TestDebounceCoalescesRapidEdits(t *testing.T) {
	m := &fakeMeasurer{}
	p := NewPreviewer(m, 50*time.Millisecond)
	defer p.Close()

	for i := 0; i < 10; i++ {
		p.Request(docWithSummary("draft"), uint64(i+1))
		time.Sleep(2 * time.Millisecond)
	}
	res := waitForResult(t, p, 10)
	if m.callCount() != 1 {
		t.Fatalf("%d measurements for 10 rapid edits, want 1", m.callCount())
	}
	if res.Extended {
		t.Fatal("short document classified extended")
	}
}

func TestStaleResultNeverClobbersLatest(t *testing.T) {
	m := &fakeMeasurer{delay: 80 * time.Millisecond}
	p := NewPreviewer(m, 5*time.Millisecond)
	defer p.Close()

	p.Request(docWithSummary("first edit"), 1)
	time.Sleep(20 * time.Millisecond) // let the first run start
	p.Request(docWithSummary("LONGDOC second edit"), 2)

	res := waitForResult(t, p, 2)
	if !strings.Contains(res.HTML, "LONGDOC") {
		t.Fatal("result reflects the first (stale) edit")
	}
	if !res.Extended {
		t.Fatal("long document should be extended")
	}

	// Give the stale run time to finish; it must not overwrite version 2.
	time.Sleep(150 * time.Millisecond)
	res, _ = p.Result()
	if res.Version != 2 {
		t.Fatalf("stale run clobbered result, version %d", res.Version)
	}
}

func TestEmptyDocumentStillMeasures(t *testing.T) {
	m := &fakeMeasurer{}
	p := NewPreviewer(m, time.Millisecond)
	defer p.Close()

	p.Request(model.NewDocument(), 1)
	res := waitForResult(t, p, 1)
	if res.Err != nil {
		t.Fatalf("empty document errored: %v", res.Err)
	}
	if res.Extended {
		t.Fatal("empty document classified extended")
	}
	if res.HTML == "" {
		t.Fatal("empty document must still render the header")
	}
}

func TestReloadRetriesAfterFailure(t *testing.T) {
	m := &fakeMeasurer{}
	p := NewPreviewer(m, time.Millisecond)
	defer p.Close()

	p.Request(docWithSummary("x"), 1)
	waitForResult(t, p, 1)

	before := m.callCount()
	p.Reload()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && m.callCount() == before {
		time.Sleep(5 * time.Millisecond)
	}
	if m.callCount() == before {
		t.Fatal("Reload did not trigger a fresh measurement")
	}
}
