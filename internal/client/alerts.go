package client

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultAlertTimeout is used when Set is given a non-positive timeout.
const DefaultAlertTimeout = 5 * time.Second

type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertDanger  AlertType = "danger"
)

type Alert struct {
	ID   string
	Msg  string
	Type AlertType
}

// Alerts holds transient notifications. Every alert removes itself when its
// timer fires; Remove and Close cancel pending timers.
type Alerts struct {
	mu       sync.Mutex
	alerts   []Alert
	timers   map[string]*time.Timer
	closed   bool
	onChange func([]Alert)
}

// NewAlerts returns an empty set. onChange, if set, receives a snapshot
// after every change and runs without the lock held.
func NewAlerts(onChange func([]Alert)) *Alerts {
	return &Alerts{timers: make(map[string]*time.Timer), onChange: onChange}
}

// Set adds an alert and returns its id. After Close it is a no-op and
// returns "".
func (a *Alerts) Set(msg string, typ AlertType, timeout time.Duration) string {
	if timeout <= 0 {
		timeout = DefaultAlertTimeout
	}
	id := uuid.NewString()

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ""
	}
	a.alerts = append(a.alerts, Alert{ID: id, Msg: msg, Type: typ})
	a.timers[id] = time.AfterFunc(timeout, func() { a.expire(id) })
	snap := a.snapshot()
	a.mu.Unlock()

	a.notify(snap)
	return id
}

// Report adds one danger alert per message carried by err.
func (a *Alerts) Report(err error, timeout time.Duration) []string {
	if err == nil {
		return nil
	}
	msgs := []string{err.Error()}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msgs = apiErr.Messages()
	}

	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if id := a.Set(m, AlertDanger, timeout); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Remove drops the alert and stops its timer. Unknown ids are ignored.
func (a *Alerts) Remove(id string) {
	a.mu.Lock()
	if t, ok := a.timers[id]; ok {
		t.Stop()
	}
	changed := a.drop(id)
	snap := a.snapshot()
	a.mu.Unlock()

	if changed {
		a.notify(snap)
	}
}

func (a *Alerts) expire(id string) {
	a.mu.Lock()
	changed := a.drop(id)
	snap := a.snapshot()
	a.mu.Unlock()

	if changed {
		a.notify(snap)
	}
}

// List returns the current alerts, oldest first.
func (a *Alerts) List() []Alert {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

// Close stops every pending timer and clears the set.
func (a *Alerts) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, t := range a.timers {
		t.Stop()
		delete(a.timers, id)
	}
	a.alerts = nil
	a.closed = true
}

// drop must be called with mu held.
func (a *Alerts) drop(id string) bool {
	delete(a.timers, id)
	for i, al := range a.alerts {
		if al.ID == id {
			a.alerts = append(a.alerts[:i], a.alerts[i+1:]...)
			return true
		}
	}
	return false
}

func (a *Alerts) snapshot() []Alert {
	out := make([]Alert, len(a.alerts))
	copy(out, a.alerts)
	return out
}

func (a *Alerts) notify(snap []Alert) {
	if a.onChange != nil {
		a.onChange(snap)
	}
}
