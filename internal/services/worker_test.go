package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

// scriptedTasks lets each test script the executors directly.
type scriptedTasks struct {
	locate  func(LocateFilePathInput) LocateFilePathResult
	process func(ProcessResumeInput) ProcessResumeResult
}

func (s *scriptedTasks) LocateFilePath(ctx context.Context, input LocateFilePathInput) LocateFilePathResult {
	if s.locate == nil {
		return LocateFilePathResult{
			FilePath:    "/data/resume.pdf",
			ResumeID:    input.ResumeID,
			FetchStatus: TaskSuccess,
		}
	}
	return s.locate(input)
}

func (s *scriptedTasks) ProcessResume(ctx context.Context, input ProcessResumeInput) ProcessResumeResult {
	if s.process == nil {
		return ProcessResumeResult{Status: TaskSuccess, Message: "ok", ResumeID: input.ResumeID}
	}
	return s.process(input)
}

func newTestWorker(tasks TaskService, concurrency int) *worker {
	return NewWorker(newFakeResumeRepo(), tasks, concurrency, 10, time.Hour).(*worker)
}

func TestWorkerProcessesEnqueuedResume(t *testing.T) {
	processed := make(chan string, 1)
	tasks := &scriptedTasks{
		process: func(input ProcessResumeInput) ProcessResumeResult {
			processed <- input.ResumeID
			return ProcessResumeResult{Status: TaskSuccess, Message: "ok", ResumeID: input.ResumeID}
		},
	}

	w := newTestWorker(tasks, 1)
	w.Start(context.Background())
	defer w.Stop()

	id := uuid.New()
	w.EnqueueResume(id)

	select {
	case got := <-processed:
		if got != id.String() {
			t.Errorf("processed %s, want %s", got, id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("resume was never dispatched")
	}
}

func TestWorkerSurvivesPanickingExecutor(t *testing.T) {
	var calls atomic.Int32
	processed := make(chan string, 2)
	tasks := &scriptedTasks{
		process: func(input ProcessResumeInput) ProcessResumeResult {
			if calls.Add(1) == 1 {
				panic("executor defect")
			}
			processed <- input.ResumeID
			return ProcessResumeResult{Status: TaskSuccess, Message: "ok", ResumeID: input.ResumeID}
		},
	}

	w := newTestWorker(tasks, 1)
	w.Start(context.Background())
	defer w.Stop()

	w.EnqueueResume(uuid.New())
	second := uuid.New()
	w.EnqueueResume(second)

	select {
	case got := <-processed:
		if got != second.String() {
			t.Errorf("processed %s, want %s", got, second)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pool died after a panicking executor")
	}
}

func TestRunWorkflowReportsCrashDistinctFromDomainFailure(t *testing.T) {
	panicking := &scriptedTasks{
		locate: func(LocateFilePathInput) LocateFilePathResult {
			panic("nil dereference")
		},
	}
	w := newTestWorker(panicking, 1)

	_, crashed := w.runWorkflow(context.Background(), uuid.New())
	if crashed == nil {
		t.Fatal("expected a crashed outcome from a panicking executor")
	}

	failing := &scriptedTasks{
		process: func(input ProcessResumeInput) ProcessResumeResult {
			return ProcessResumeResult{Status: TaskFailure, Message: "Resume processing failed: boom", ResumeID: input.ResumeID}
		},
	}
	w = newTestWorker(failing, 1)

	result, crashed := w.runWorkflow(context.Background(), uuid.New())
	if crashed != nil {
		t.Fatalf("domain failure reported as crash: %v", crashed)
	}
	if result.Status != TaskFailure {
		t.Errorf("Status = %s, want Failure", result.Status)
	}
}

func TestRunWorkflowChainsLocateIntoProcess(t *testing.T) {
	var gotPath string
	id := uuid.New()
	tasks := &scriptedTasks{
		locate: func(input LocateFilePathInput) LocateFilePathResult {
			return LocateFilePathResult{
				FilePath:    "/data/located.pdf",
				ResumeID:    input.ResumeID,
				FetchStatus: TaskSuccess,
			}
		},
		process: func(input ProcessResumeInput) ProcessResumeResult {
			gotPath = input.FilePath
			return ProcessResumeResult{Status: TaskSuccess, Message: "ok", ResumeID: input.ResumeID}
		},
	}
	w := newTestWorker(tasks, 1)

	result, crashed := w.runWorkflow(context.Background(), id)
	if crashed != nil {
		t.Fatalf("unexpected crash: %v", crashed)
	}
	if result.Status != TaskSuccess {
		t.Fatalf("Status = %s", result.Status)
	}
	if gotPath != "/data/located.pdf" {
		t.Errorf("ProcessResume got path %q, want the located one", gotPath)
	}
}

func TestEnqueueResumeDeduplicatesInFlight(t *testing.T) {
	var calls atomic.Int32
	block := make(chan struct{})
	started := make(chan struct{}, 2)
	tasks := &scriptedTasks{
		process: func(input ProcessResumeInput) ProcessResumeResult {
			calls.Add(1)
			started <- struct{}{}
			<-block
			return ProcessResumeResult{Status: TaskSuccess, Message: "ok", ResumeID: input.ResumeID}
		},
	}

	w := newTestWorker(tasks, 2)
	w.Start(context.Background())

	id := uuid.New()
	w.EnqueueResume(id)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first dispatch never started")
	}

	// Second trigger for the same resume while the first is running
	w.EnqueueResume(id)
	time.Sleep(50 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("executions = %d, want 1 while the resume is in flight", got)
	}

	close(block)
	w.Stop()
}
