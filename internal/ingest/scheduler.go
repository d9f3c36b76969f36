package ingest

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Jobs is the recurring job registry backing scheduled syncs.
type Jobs struct {
	mu        sync.Mutex
	scheduler *gocron.Scheduler
	started   bool
}

func NewJobs() *Jobs {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Jobs{scheduler: s}
}

// Schedule registers fn to run every interval under tag, starting one interval
// from now. It reports false without changes when a job with tag exists.
func (j *Jobs) Schedule(tag string, interval time.Duration, fn func()) (bool, error) {
	if interval <= 0 {
		return false, fmt.Errorf("schedule %s: interval must be positive, got %s", tag, interval)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if jobs, err := j.scheduler.FindJobsByTag(tag); err == nil && len(jobs) > 0 {
		return false, nil
	}

	job, err := j.scheduler.Every(interval).Tag(tag).WaitForSchedule().Do(fn)
	if err != nil {
		return false, fmt.Errorf("schedule %s: %w", tag, err)
	}

	if !j.started {
		j.scheduler.StartAsync()
		j.started = true
	}
	log.Printf("scheduler: %s every %s, next run %s", tag, interval, job.NextRun().Format(time.RFC3339))
	return true, nil
}

// Scheduled reports whether a job with tag is registered.
func (j *Jobs) Scheduled(tag string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	jobs, err := j.scheduler.FindJobsByTag(tag)
	return err == nil && len(jobs) > 0
}

func (j *Jobs) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started {
		j.scheduler.Stop()
		j.started = false
	}
}
