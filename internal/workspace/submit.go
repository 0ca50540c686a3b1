package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/codecoach/internal/taskparse"
	"github.com/abhisek/codecoach/internal/tutor"
)

// Submit sends the current input to the tutor and blocks until it answers.
//
// Without a mode it raises the transient warning and returns
// ErrModeRequired. Empty input returns ErrEmptyInput and a second call
// while one is pending returns ErrSubmitInFlight; neither changes state.
// On success the answer is appended to history, the input is cleared and
// follow-ups are fetched. On failure the error slot holds a message for the
// learner and history is untouched.
func (w *Workspace) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmitInFlight
	}
	if !w.mode.Valid() {
		w.raiseWarningLocked()
		w.mu.Unlock()
		w.emit(Event{Kind: EventModeWarning})
		return ErrModeRequired
	}
	question := w.input
	if strings.TrimSpace(question) == "" {
		w.mu.Unlock()
		return ErrEmptyInput
	}

	w.submitting = true
	w.errMsg = ""
	q := tutor.Question{
		Question:     question,
		Mode:         w.mode,
		Level:        w.level,
		Topic:        w.mode.Topic(),
		Language:     "General",
		UploadedTask: w.task,
		SessionID:    w.sessionID,
	}
	w.mu.Unlock()
	w.emit(Event{Kind: EventChanged})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(w.ctx, cancel)
	defer stop()

	result, err := w.svc.Tutor.Ask(ctx, q)

	w.mu.Lock()
	w.submitting = false
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		w.errMsg = userMessage(err, MsgSubmitFailed)
		w.mu.Unlock()
		log.Warn().Err(err).Str("session", q.SessionID).Msg("tutor request failed")
		w.emit(Event{Kind: EventChanged})
		return err
	}

	if result.Hints == nil {
		result.Hints = []string{}
	}
	w.history = append(w.history, HistoryEntry{
		ID:       len(w.history) + 1,
		Question: question,
		Result:   result,
		At:       time.Now(),
	})
	w.input = ""
	w.lastAsked = question
	w.typingLock = false
	w.startFollowupsLocked()
	w.mu.Unlock()

	w.emit(Event{Kind: EventQuestionSubmitted}, Event{Kind: EventChanged})
	return nil
}

// raiseWarningLocked shows the mode warning and (re)arms its auto-clear.
func (w *Workspace) raiseWarningLocked() {
	w.warning = true
	w.warnGen++
	gen := w.warnGen
	if w.warnTimer != nil {
		w.warnTimer.Stop()
	}
	w.warnTimer = time.AfterFunc(w.warn, func() {
		w.mu.Lock()
		if w.closed || gen != w.warnGen || !w.warning {
			w.mu.Unlock()
			return
		}
		w.warning = false
		w.mu.Unlock()
		w.emit(Event{Kind: EventWarningCleared})
	})
}

func (w *Workspace) clearWarningLocked() {
	w.warning = false
	w.warnGen++
	if w.warnTimer != nil {
		w.warnTimer.Stop()
	}
}

// UploadTask loads a task file as the task context. Text files are read
// directly; PDFs go through the task parser. Unsupported extensions are
// rejected before anything is read. Only one upload runs at a time.
func (w *Workspace) UploadTask(ctx context.Context, path string) error {
	kind, err := taskparse.DetectKind(path)
	if err != nil {
		w.setError(MsgUnsupportedTask)
		return err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.uploading {
		w.mu.Unlock()
		return ErrUploadInFlight
	}
	w.uploading = true
	w.mu.Unlock()
	w.emit(Event{Kind: EventChanged})

	text, err := w.readTask(ctx, kind, path)

	w.mu.Lock()
	w.uploading = false
	if err != nil {
		w.errMsg = userMessage(err, MsgUploadFailed)
	}
	w.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("task upload failed")
		w.emit(Event{Kind: EventChanged})
		return err
	}

	w.SetTask(text)
	w.emit(Event{Kind: EventChanged})
	return nil
}

func (w *Workspace) readTask(ctx context.Context, kind taskparse.Kind, path string) (string, error) {
	if kind == taskparse.KindText {
		return taskparse.ReadText(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(w.ctx, cancel)
	defer stop()

	return w.svc.TaskParser.ParsePDF(ctx, filepath.Base(path), f)
}

func (w *Workspace) setError(msg string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.errMsg = msg
	w.mu.Unlock()
	w.emit(Event{Kind: EventChanged})
}

// ClearError empties the error slot.
func (w *Workspace) ClearError() {
	w.mu.Lock()
	had := w.errMsg != ""
	w.errMsg = ""
	w.mu.Unlock()
	if had {
		w.emit(Event{Kind: EventChanged})
	}
}

// isCanceled reports whether err came from a superseded or closed fetch.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
