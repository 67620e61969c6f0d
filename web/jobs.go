package web

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roljohntorralba/imgopt/optimize"
)

// JobStatus is the lifecycle state of a submitted job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusCancelled JobStatus = "cancelled"
	StatusFailed    JobStatus = "failed"
)

// ErrJobNotFound ...
var ErrJobNotFound = errors.New("job not found")

// JobState is the registry view of one job. The embedded Job is
// immutable once launched, the rest is updated by the worker.
type JobState struct {
	*optimize.Job
	Status    JobStatus         `json:"status"`
	Done      int               `json:"done"`
	Total     int               `json:"total"`
	Error     string            `json:"error,omitempty"`
	Summary   *optimize.Summary `json:"summary,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	cancel context.CancelFunc
}

var (
	jobMu sync.RWMutex
	jobs  = make(map[string]*JobState)
	subs  = make(map[string]map[*websocket.Conn]struct{})

	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
)

// launchJob registers the job and starts its worker.
func launchJob(job *optimize.Job) *JobState {
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	st := &JobState{
		Job:       job,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
		cancel:    cancel,
	}

	jobMu.Lock()
	jobs[job.ID] = st
	jobMu.Unlock()

	go runJob(ctx, job)

	clone := *st
	return &clone
}

func runJob(ctx context.Context, job *optimize.Job) {
	events := make(chan optimize.Event, 64)
	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		for ev := range events {
			applyEvent(job.ID, ev)
			broadcast(job.ID, ev)
		}
	}()

	updateJob(job.ID, func(st *JobState) { st.Status = StatusRunning })

	runner := optimize.Runner{Sink: events}
	sum, err := runner.Run(ctx, job)
	<-pumped

	updateJob(job.ID, func(st *JobState) {
		st.Summary = sum
		switch {
		case err == nil:
			st.Status = StatusCompleted
		case errors.Is(err, context.Canceled):
			st.Status = StatusCancelled
		default:
			st.Status = StatusFailed
			st.Error = err.Error()
		}
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		reportError(err, map[string]string{"job": job.ID, "src": job.SrcDir})
	}
}

func applyEvent(id string, ev optimize.Event) {
	updateJob(id, func(st *JobState) {
		if ev.Total > 0 {
			st.Total = ev.Total
		}
		if ev.Done > 0 {
			st.Done = ev.Done
		}
	})
}

func getJob(id string) (*JobState, bool) {
	jobMu.RLock()
	defer jobMu.RUnlock()
	st, ok := jobs[id]
	if !ok {
		return nil, false
	}
	clone := *st
	return &clone, true
}

func updateJob(id string, fn func(*JobState)) {
	jobMu.Lock()
	defer jobMu.Unlock()
	if st, ok := jobs[id]; ok {
		fn(st)
		st.UpdatedAt = time.Now()
	}
}

func listJobs() []*JobState {
	jobMu.RLock()
	out := make([]*JobState, 0, len(jobs))
	for _, st := range jobs {
		clone := *st
		out = append(out, &clone)
	}
	jobMu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// cancelJob stops a queued or running job. Finished jobs are left as
// they are.
func cancelJob(id string) (ok bool) {
	jobMu.Lock()
	if st, found := jobs[id]; found {
		if st.Status == StatusQueued || st.Status == StatusRunning {
			st.cancel()
			ok = true
		}
	}
	jobMu.Unlock()
	return
}

func subscribe(id string, c *websocket.Conn) {
	jobMu.Lock()
	if subs[id] == nil {
		subs[id] = make(map[*websocket.Conn]struct{})
	}
	subs[id][c] = struct{}{}
	jobMu.Unlock()
}

func unsubscribe(id string, c *websocket.Conn) {
	jobMu.Lock()
	delete(subs[id], c)
	jobMu.Unlock()
}

func broadcast(id string, ev optimize.Event) {
	jobMu.RLock()
	conns := make([]*websocket.Conn, 0, len(subs[id]))
	for c := range subs[id] {
		conns = append(conns, c)
	}
	jobMu.RUnlock()

	for _, c := range conns {
		if err := c.WriteJSON(ev); err != nil {
			unsubscribe(id, c)
			c.Close()
		}
	}
}
