package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/codecoach/internal/suggest"
	"github.com/abhisek/codecoach/internal/tutor"
)

// Options tune a workspace. Zero values pick defaults.
type Options struct {
	// SessionID overrides the generated session identifier.
	SessionID string

	// Tips supplies typing tips. Defaults to the built-in rule table.
	Tips TipSource

	// WarningDuration is how long the missing-mode warning stays up.
	WarningDuration time.Duration
}

// HistoryEntry is one answered question.
type HistoryEntry struct {
	ID       int
	Question string
	Result   tutor.Result
	At       time.Time
}

// fetch tracks one kind of asynchronous suggestion request. Only the
// request holding the current token may apply its result.
type fetch struct {
	token   uint64
	cancel  context.CancelFunc
	loading bool
	items   []string
}

// supersede cancels any in-flight request and returns the token for the
// next one.
func (f *fetch) supersede() uint64 {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.token++
	return f.token
}

// Workspace is one learner's session. All methods are safe for concurrent
// use. Observers are called outside the lock, from whichever goroutine
// caused the change.
type Workspace struct {
	svc  Services
	tips TipSource
	warn time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	closed     bool
	sessionID  string
	mode       tutor.Mode
	level      tutor.Level
	task       string
	input      string
	history    []HistoryEntry
	submitting bool
	uploading  bool
	errMsg     string

	warning    bool
	warnGen    uint64
	warnTimer  *time.Timer
	lastAsked  string
	typingLock bool

	starter         fetch
	starterRotation int
	followup        fetch
	advisory        string

	observers map[int]func(Event)
	nextObs   int
}

// New creates a workspace with a fresh session identifier.
func New(svc Services, opts Options) *Workspace {
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	if opts.Tips == nil {
		opts.Tips = suggest.NewTable(suggest.DefaultRules())
	}
	if opts.WarningDuration <= 0 {
		opts.WarningDuration = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Workspace{
		svc:       svc,
		tips:      opts.Tips,
		warn:      opts.WarningDuration,
		ctx:       ctx,
		cancel:    cancel,
		sessionID: opts.SessionID,
		observers: make(map[int]func(Event)),
	}
}

// Close cancels in-flight fetches, waits for them to finish and drops all
// observers. Later operations return ErrClosed or do nothing.
func (w *Workspace) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.cancel()
	if w.warnTimer != nil {
		w.warnTimer.Stop()
	}
	w.observers = map[int]func(Event){}
	w.mu.Unlock()

	w.wg.Wait()
}

// SessionID returns the stable session identifier.
func (w *Workspace) SessionID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessionID
}

// Mode returns the selected mode.
func (w *Workspace) Mode() tutor.Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// Level returns the selected level.
func (w *Workspace) Level() tutor.Level {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.level
}

// Task returns the uploaded task text, or "" when there is none.
func (w *Workspace) Task() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.task
}

// Input returns the question being written.
func (w *Workspace) Input() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input
}

// History returns a copy of the answered questions in submission order.
func (w *Workspace) History() []HistoryEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]HistoryEntry, len(w.history))
	copy(out, w.history)
	return out
}

// Submitting reports whether a question is awaiting its answer.
func (w *Workspace) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Uploading reports whether a task file is being parsed.
func (w *Workspace) Uploading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.uploading
}

// Error returns the current error message, or "".
func (w *Workspace) Error() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errMsg
}

// Warning reports whether the missing-mode warning is showing.
func (w *Workspace) Warning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.warning
}

// SelectMode changes the mode. A change refetches starters, and follow-ups
// too once a question has been asked.
func (w *Workspace) SelectMode(m tutor.Mode) {
	w.mu.Lock()
	if w.closed || m == w.mode {
		w.mu.Unlock()
		return
	}
	w.mode = m
	events := []Event{{Kind: EventChanged}}
	if m.Valid() && w.warning {
		w.clearWarningLocked()
		events = append(events, Event{Kind: EventWarningCleared})
	}
	w.startStartersLocked()
	w.startFollowupsLocked()
	w.mu.Unlock()

	w.emit(events...)
}

// SelectLevel changes the level.
func (w *Workspace) SelectLevel(l tutor.Level) {
	w.mu.Lock()
	if w.closed || l == w.level {
		w.mu.Unlock()
		return
	}
	w.level = l
	w.mu.Unlock()

	w.emit(Event{Kind: EventChanged})
}

// SetInput replaces the question being written.
func (w *Workspace) SetInput(text string) {
	w.mu.Lock()
	if w.closed || text == w.input {
		w.mu.Unlock()
		return
	}
	w.input = text
	w.mu.Unlock()

	w.emit(Event{Kind: EventChanged})
}

// SetTask replaces the uploaded task text; "" clears it. Any in-flight
// starter fetch is superseded by a new one.
func (w *Workspace) SetTask(text string) {
	w.mu.Lock()
	if w.closed || text == w.task {
		w.mu.Unlock()
		return
	}
	w.task = text
	w.startStartersLocked()
	w.mu.Unlock()

	w.emit(Event{Kind: EventChanged})
}

// Subscribe registers fn for workspace events and returns a function that
// removes it.
func (w *Workspace) Subscribe(fn func(Event)) (unsubscribe func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return func() {}
	}
	id := w.nextObs
	w.nextObs++
	w.observers[id] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.observers, id)
	}
}

func (w *Workspace) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	w.mu.Lock()
	fns := make([]func(Event), 0, len(w.observers))
	for _, fn := range w.observers {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, ev := range events {
		for _, fn := range fns {
			fn(ev)
		}
	}
}

// childContext derives a fetch context that ends when the workspace closes.
func (w *Workspace) childContext() (context.Context, context.CancelFunc) {
	return context.WithCancel(w.ctx)
}
