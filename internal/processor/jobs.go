package processor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobState is the lifecycle of an asynchronous run.
type JobState string

const (
	JobPending JobState = "pending"
	JobRunning JobState = "running"
	JobDone    JobState = "done"
)

// Job is a queryable handle for one asynchronous pipeline run. The
// early HTTP acknowledgment no longer swallows late failures: the
// final Result stays available under the job id.
type Job struct {
	ID          string     `json:"id"`
	State       JobState   `json:"state"`
	File        string     `json:"file,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Result      *Result    `json:"result,omitempty"`
}

// Jobs runs pipelines in the background and retains their results.
type Jobs struct {
	pipeline *Pipeline
	log      *zap.Logger

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewJobs creates a job registry over the given pipeline.
func NewJobs(pipeline *Pipeline, log *zap.Logger) *Jobs {
	if log == nil {
		log = zap.NewNop()
	}
	return &Jobs{
		pipeline: pipeline,
		log:      log,
		jobs:     make(map[string]*Job),
	}
}

// SubmitFile schedules one transient file for processing and returns
// the job id immediately. Each run owns its file exclusively; no two
// jobs share an upload.
func (j *Jobs) SubmitFile(path, originalName string) string {
	id := uuid.NewString()

	j.mu.Lock()
	j.jobs[id] = &Job{
		ID:          id,
		State:       JobPending,
		File:        originalName,
		SubmittedAt: time.Now().UTC(),
	}
	j.mu.Unlock()

	go j.run(id, path)
	return id
}

func (j *Jobs) run(id, path string) {
	j.setState(id, JobRunning)

	res := j.pipeline.RunFile(context.Background(), path)

	now := time.Now().UTC()
	j.mu.Lock()
	if job, ok := j.jobs[id]; ok {
		job.State = JobDone
		job.FinishedAt = &now
		job.Result = res
	}
	j.mu.Unlock()

	if res.Failed() {
		j.log.Error("asynchronous integration failed",
			zap.String("job", id),
			zap.String("kind", string(res.ErrorKind())),
			zap.Error(res.Err))
	} else {
		j.log.Info("asynchronous integration finished",
			zap.String("job", id))
	}
}

func (j *Jobs) setState(id string, state JobState) {
	j.mu.Lock()
	if job, ok := j.jobs[id]; ok {
		job.State = state
	}
	j.mu.Unlock()
}

// Get returns a snapshot of the job, or false when the id is unknown.
func (j *Jobs) Get(id string) (Job, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	job, ok := j.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}
