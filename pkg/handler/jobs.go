package handler

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle of a run.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job keeps track of one run from tool invocation to finished table.
type Job struct {
	ID         string
	Status     JobStatus
	ReportPath string
	TablePath  string
	InputSeqs  int
	Rows       int
	Warnings   []string
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewJob registers a queued job with a fresh ID.
func NewJob() *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Status:    JobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetRunning marks the job as running.
func (j *Job) SetRunning() {
	j.update(func(job *Job) {
		job.Status = JobRunning
	})
}

// Complete records the number of rows written and marks the job complete.
func (j *Job) Complete(rows int) {
	j.update(func(job *Job) {
		job.Status = JobCompleted
		job.Rows = rows
	})
}

// Fail records a failure and its message.
func (j *Job) Fail(err error) {
	j.update(func(job *Job) {
		job.Status = JobFailed
		job.Error = err.Error()
	})
}

// Warn attaches a non-fatal problem to the job.
func (j *Job) Warn(msg string) {
	j.update(func(job *Job) {
		job.Warnings = append(job.Warnings, msg)
	})
}

// Duration is the time since the job was created, as of its last update.
func (j *Job) Duration() time.Duration {
	return j.UpdatedAt.Sub(j.CreatedAt)
}

func (j *Job) update(update func(job *Job)) {
	update(j)
	j.UpdatedAt = time.Now()
}
