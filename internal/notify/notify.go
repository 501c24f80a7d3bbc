// Package notify carries transient user-facing notices (the dashboard's
// toasts) from controllers and forms to the next rendered page.
package notify

import "sync"

// Level is the severity of a notice
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is one transient message
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives notices
type Notifier interface {
	Notify(level Level, message string)
}

// Queue is a concurrency-safe Notifier buffering notices until drained
type Queue struct {
	mu      sync.Mutex
	notices []Notice
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Notify appends a notice
func (q *Queue) Notify(level Level, message string) {
	q.mu.Lock()
	q.notices = append(q.notices, Notice{Level: level, Message: message})
	q.mu.Unlock()
}

// Drain returns and removes all buffered notices
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.notices
	q.notices = nil
	return out
}

// Len returns the number of buffered notices
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.notices)
}

// Discard drops every notice
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Level, string) {}
