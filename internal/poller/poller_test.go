package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chaincv/resume-analyzer/internal/models"
)

type pollStep struct {
	result StatusResult
	err    error
}

// scriptedStatusClient replays a fixed sequence of responses, repeating
// the last one, and counts how many polls were made.
type scriptedStatusClient struct {
	mu    sync.Mutex
	steps []pollStep
	calls int
}

func (c *scriptedStatusClient) GetStatus(ctx context.Context, resumeID string) (StatusResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.calls
	if idx >= len(c.steps) {
		idx = len(c.steps) - 1
	}
	c.calls++
	step := c.steps[idx]
	return step.result, step.err
}

func (c *scriptedStatusClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func pending() pollStep {
	return pollStep{result: StatusResult{Status: models.PollStatusPending}}
}

func TestPollerCompletesAfterPendingRuns(t *testing.T) {
	data := &models.AnalysisData{Summary: "ok", OverallScore: 70}
	client := &scriptedStatusClient{steps: []pollStep{
		pending(), pending(), pending(),
		{result: StatusResult{Status: models.PollStatusCompleted, Data: data}},
	}}

	p := New(client, 5*time.Millisecond)
	result := <-p.Start(context.Background(), "resume-1")

	if result.State != StateCompleted {
		t.Fatalf("State = %s, want completed", result.State)
	}
	if result.Data == nil || result.Data.Summary != "ok" {
		t.Errorf("Data = %+v, want the analysis payload", result.Data)
	}
	if p.State() != StateCompleted {
		t.Errorf("poller state = %s, want completed", p.State())
	}

	// Polling must have stopped: no further requests after the
	// terminal response.
	settled := client.callCount()
	if settled != 4 {
		t.Errorf("polls until terminal = %d, want 4", settled)
	}
	time.Sleep(50 * time.Millisecond)
	if got := client.callCount(); got != settled {
		t.Errorf("polls kept going after completion: %d -> %d", settled, got)
	}
}

func TestPollerStopsOnFailedStatus(t *testing.T) {
	client := &scriptedStatusClient{steps: []pollStep{
		{result: StatusResult{Status: models.PollStatusFailed, Message: "PDF text extraction returned empty content"}},
	}}

	p := New(client, 5*time.Millisecond)
	result := <-p.Start(context.Background(), "resume-1")

	if result.State != StateError {
		t.Fatalf("State = %s, want error", result.State)
	}
	if result.Message != "PDF text extraction returned empty content" {
		t.Errorf("Message = %q, want the server's literal error", result.Message)
	}

	time.Sleep(30 * time.Millisecond)
	if got := client.callCount(); got != 1 {
		t.Errorf("polls after FAILED = %d, want 1", got)
	}
}

func TestPollerStopsOnRequestError(t *testing.T) {
	client := &scriptedStatusClient{steps: []pollStep{
		{err: errors.New("connection refused")},
	}}

	p := New(client, 5*time.Millisecond)
	result := <-p.Start(context.Background(), "resume-1")

	if result.State != StateError {
		t.Fatalf("State = %s, want error", result.State)
	}
	if result.Message != "could not get status" {
		t.Errorf("Message = %q, want the generic poll-failure message", result.Message)
	}

	time.Sleep(30 * time.Millisecond)
	if got := client.callCount(); got != 1 {
		t.Errorf("polls after request error = %d, want 1", got)
	}
}

// routingStatusClient answers per resume id: resume-1 is forever
// pending, resume-2 completes immediately.
type routingStatusClient struct {
	mu          sync.Mutex
	firstCalls  int
	secondCalls int
}

func (c *routingStatusClient) GetStatus(ctx context.Context, resumeID string) (StatusResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if resumeID == "resume-2" {
		c.secondCalls++
		return StatusResult{Status: models.PollStatusCompleted, Data: &models.AnalysisData{}}, nil
	}
	c.firstCalls++
	return StatusResult{Status: models.PollStatusPending}, nil
}

func TestStartCancelsPriorLoop(t *testing.T) {
	client := &routingStatusClient{}

	p := New(client, 5*time.Millisecond)
	first := p.Start(context.Background(), "resume-1")

	// New file selected: the first loop must stop, only the second may
	// reach a terminal state.
	second := p.Start(context.Background(), "resume-2")

	select {
	case result := <-second:
		if result.State != StateCompleted {
			t.Fatalf("State = %s, want completed", result.State)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second poll never finished")
	}

	select {
	case result := <-first:
		t.Fatalf("cancelled loop still produced %+v", result)
	case <-time.After(50 * time.Millisecond):
	}

	client.mu.Lock()
	firstCalls := client.firstCalls
	client.mu.Unlock()
	time.Sleep(50 * time.Millisecond)
	client.mu.Lock()
	finalCalls := client.firstCalls
	client.mu.Unlock()
	if finalCalls != firstCalls {
		t.Errorf("cancelled loop kept polling: %d -> %d", firstCalls, finalCalls)
	}
}

func TestResetReturnsToIdleAndStopsPolling(t *testing.T) {
	client := &scriptedStatusClient{steps: []pollStep{pending()}}

	p := New(client, 5*time.Millisecond)
	results := p.Start(context.Background(), "resume-1")

	time.Sleep(20 * time.Millisecond)
	p.Reset()

	if p.State() != StateIdle {
		t.Errorf("state after Reset = %s, want idle", p.State())
	}

	settled := client.callCount()
	time.Sleep(50 * time.Millisecond)
	if got := client.callCount(); got != settled {
		t.Errorf("polling continued after Reset: %d -> %d", settled, got)
	}

	select {
	case result := <-results:
		t.Fatalf("reset loop still produced %+v", result)
	default:
	}
}
