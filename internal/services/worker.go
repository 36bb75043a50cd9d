package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"chaincv/resume-analyzer/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueResume(resumeID uuid.UUID)
}

type worker struct {
	resumeRepo   repositories.ResumeRepository
	taskService  TaskService
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}

	// Per-resume dispatch guard: at most one workflow execution per
	// resume is in flight in this process.
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func NewWorker(
	resumeRepo repositories.ResumeRepository,
	taskService TaskService,
	concurrency int,
	queueSize int,
	pollInterval time.Duration,
) Worker {
	return &worker{
		resumeRepo:   resumeRepo,
		taskService:  taskService,
		jobQueue:     make(chan uuid.UUID, queueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
		inFlight:     make(map[uuid.UUID]struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent executors\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollUploadedResumes(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueResume implements Worker. A resume already queued or running
// is skipped so duplicate triggers cannot race each other.
func (w *worker) EnqueueResume(resumeID uuid.UUID) {
	if !w.tryAcquire(resumeID) {
		log.Printf("⏭️  Resume %s already in flight, skipping\n", resumeID)
		return
	}

	select {
	case w.jobQueue <- resumeID:
		log.Printf("📥 Resume %s enqueued\n", resumeID)
	case <-w.stopChan:
		w.release(resumeID)
		log.Printf("⚠️  Worker stopped, cannot enqueue resume %s\n", resumeID)
	}
}

func (w *worker) tryAcquire(resumeID uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inFlight[resumeID]; busy {
		return false
	}
	w.inFlight[resumeID] = struct{}{}
	return true
}

func (w *worker) release(resumeID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, resumeID)
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("👷 Executor #%d started\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Executor #%d stopped\n", workerID)
			return
		case resumeID := <-w.jobQueue:
			log.Printf("👷 Executor #%d processing resume %s\n", workerID, resumeID)

			result, crashed := w.runWorkflow(ctx, resumeID)
			w.release(resumeID)

			switch {
			case crashed != nil:
				// The one genuinely failed task outcome: a
				// programming defect, not a domain failure.
				log.Printf("💥 Executor #%d crashed on resume %s: %v\n", workerID, resumeID, crashed)
			case result.Status == TaskFailure:
				log.Printf("❌ Executor #%d completed resume %s with failure: %s\n", workerID, resumeID, result.Message)
			default:
				log.Printf("✅ Executor #%d completed resume %s: %s\n", workerID, resumeID, result.Message)
			}
		}
	}
}

// runWorkflow chains the two task executors for one resume. A panic in
// either executor is recovered and reported as a crashed outcome; the
// pool itself never dies.
func (w *worker) runWorkflow(ctx context.Context, resumeID uuid.UUID) (result ProcessResumeResult, crashed error) {
	defer func() {
		if r := recover(); r != nil {
			crashed = fmt.Errorf("task executor panicked: %v", r)
		}
	}()

	located := w.taskService.LocateFilePath(ctx, LocateFilePathInput{
		ResumeID: resumeID.String(),
	})
	if located.FetchStatus == TaskFailure {
		log.Printf("⚠️  Locate task failed for resume %s: %s\n", resumeID, located.Error)
	}

	// ProcessResume handles an empty located path itself and records
	// the terminal FAILED state, mirroring the workflow chaining.
	result = w.taskService.ProcessResume(ctx, ProcessResumeInput{
		FilePath: located.FilePath,
		ResumeID: resumeID.String(),
	})
	return result, nil
}

// pollUploadedResumes periodically re-enqueues resumes still sitting at
// UPLOADED. The in-memory queue is not durable; this loop is what picks
// work back up after a restart.
func (w *worker) pollUploadedResumes(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting uploaded-resume poller")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Uploaded-resume poller stopped")
			return
		case <-ticker.C:
			pending, err := w.resumeRepo.FindUploaded(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch uploaded resumes: %v\n", err)
				continue
			}

			if len(pending) > 0 {
				log.Printf("📋 Found %d uploaded resumes awaiting processing\n", len(pending))
			}

			for _, resume := range pending {
				w.EnqueueResume(resume.ID)
			}
		}
	}
}
