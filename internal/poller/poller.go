// Package poller implements the client side of the polling protocol: a
// small state machine that queries a resume's status at a fixed interval
// until a terminal state is observed.
package poller

import (
	"context"
	"sync"
	"time"

	"chaincv/resume-analyzer/internal/models"
)

// State is the client-side mirror of the server lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateUploading State = "uploading"
	StateAnalyzing State = "analyzing"
	StateCompleted State = "completed"
	StateError     State = "error"
)

// StatusResult is one status-endpoint response.
type StatusResult struct {
	Status  string
	Data    *models.AnalysisData
	Message string
}

// StatusClient fetches the current status of a resume.
type StatusClient interface {
	GetStatus(ctx context.Context, resumeID string) (StatusResult, error)
}

// Result is the single terminal outcome of one polling run.
type Result struct {
	State   State
	Data    *models.AnalysisData
	Message string
}

// Poller owns the cancellation token for its polling loop. Starting a
// new poll first cancels any prior one, so at most one loop is ever
// active per Poller.
type Poller struct {
	client   StatusClient
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	state  State
}

const DefaultInterval = 3 * time.Second

func New(client StatusClient, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		client:   client,
		interval: interval,
		state:    StateIdle,
	}
}

func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Reset returns the poller to idle and cancels any in-flight loop, e.g.
// when the user picks a new file mid-analysis.
func (p *Poller) Reset() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.state = StateIdle
	p.mu.Unlock()
}

// Start begins polling for resumeID and returns a channel that receives
// exactly one terminal Result. A previously started loop is cancelled
// first; a cancelled loop's channel never receives.
func (p *Poller) Start(ctx context.Context, resumeID string) <-chan Result {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.state = StateAnalyzing
	client := p.client
	p.mu.Unlock()

	results := make(chan Result, 1)
	go p.loop(loopCtx, client, resumeID, results)
	return results
}

func (p *Poller) loop(ctx context.Context, client StatusClient, resumeID string, results chan<- Result) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := client.GetStatus(ctx, resumeID)
			if ctx.Err() != nil {
				// Cancelled mid-request; a newer loop owns the
				// state now.
				return
			}
			if err != nil {
				// A failed poll request stops polling just like
				// a FAILED status does.
				p.finish(results, Result{
					State:   StateError,
					Message: "could not get status",
				})
				return
			}

			switch res.Status {
			case models.PollStatusCompleted:
				p.finish(results, Result{
					State: StateCompleted,
					Data:  res.Data,
				})
				return
			case models.PollStatusFailed:
				p.finish(results, Result{
					State:   StateError,
					Message: res.Message,
				})
				return
			default:
				// PENDING: nothing to do until the next tick
			}
		}
	}
}

func (p *Poller) finish(results chan<- Result, r Result) {
	p.setState(r.State)
	results <- r
}
