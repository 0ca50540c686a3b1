package workspace

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/abhisek/codecoach/internal/suggest"
	"github.com/abhisek/codecoach/internal/tutor"
)

// Origin says where the visible suggestions came from.
type Origin int

const (
	OriginNone Origin = iota
	OriginTypingTip
	OriginStarter
	OriginFollowup
)

func (o Origin) String() string {
	switch o {
	case OriginTypingTip:
		return "typing-tip"
	case OriginStarter:
		return "starter"
	case OriginFollowup:
		return "followup"
	}
	return "none"
}

// SuggestionSet is what the suggestion panel shows. Loading means a fetch
// is pending and the panel shows a placeholder instead of Items. Advisory
// replaces Items when follow-ups failed or came back empty.
type SuggestionSet struct {
	Origin   Origin
	Items    []string
	Loading  bool
	Advisory string
}

// Selectable reports whether picking an item moves it into the input.
// Typing tips are advice about phrasing, not prompts, so they are not.
func (s SuggestionSet) Selectable() bool {
	return s.Origin == OriginStarter || s.Origin == OriginFollowup
}

// Suggestions computes the visible set. Follow-ups win while present; after
// a follow-up was picked nothing else shows until the next answer arrives;
// starters show while the input is nearly empty; typing tips otherwise.
func (w *Workspace) Suggestions() SuggestionSet {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.suggestionsLocked()
}

func (w *Workspace) suggestionsLocked() SuggestionSet {
	if w.followupPresentLocked() {
		return SuggestionSet{
			Origin:   OriginFollowup,
			Items:    append([]string(nil), w.followup.items...),
			Loading:  w.followup.loading,
			Advisory: w.advisory,
		}
	}
	if w.typingLock {
		return SuggestionSet{Origin: OriginFollowup}
	}

	trimmed := strings.TrimSpace(w.input)
	if w.mode.Valid() && len([]rune(trimmed)) <= 2 {
		return SuggestionSet{
			Origin:  OriginStarter,
			Items:   append([]string(nil), w.starter.items...),
			Loading: w.starter.loading,
		}
	}

	tips := w.tips.Suggest(w.input, w.mode, w.task != "")
	if len(tips) == 0 {
		return SuggestionSet{Origin: OriginNone}
	}
	return SuggestionSet{Origin: OriginTypingTip, Items: tips}
}

func (w *Workspace) followupPresentLocked() bool {
	return w.followup.loading || w.advisory != "" || len(w.followup.items) > 0
}

// Select moves the i-th visible suggestion into the input and removes it
// from its set. Picking a follow-up keeps typing tips away until the next
// answer. It returns false when the visible set is not selectable or i is
// out of range.
func (w *Workspace) Select(i int) (string, bool) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return "", false
	}
	set := w.suggestionsLocked()
	if !set.Selectable() || set.Loading || i < 0 || i >= len(set.Items) {
		w.mu.Unlock()
		return "", false
	}

	text := set.Items[i]
	switch set.Origin {
	case OriginFollowup:
		w.followup.items = removeAt(w.followup.items, i)
		w.typingLock = true
	case OriginStarter:
		w.starter.items = removeAt(w.starter.items, i)
	}
	w.input = text
	w.mu.Unlock()

	w.emit(Event{Kind: EventChanged})
	return text, true
}

func removeAt(items []string, i int) []string {
	out := make([]string, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// RefreshStarters rotates the local fallback and refetches starters.
func (w *Workspace) RefreshStarters() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.starterRotation++
	w.startStartersLocked()
	w.mu.Unlock()

	w.emit(Event{Kind: EventChanged})
}

// RefreshFollowups refetches follow-ups for the last answered question.
func (w *Workspace) RefreshFollowups() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.startFollowupsLocked()
	w.mu.Unlock()

	w.emit(Event{Kind: EventChanged})
}

// startStartersLocked supersedes any starter fetch and, with a mode
// selected, starts a new one. Failures and empty replies fall back to the
// canned starters for the current rotation.
func (w *Workspace) startStartersLocked() {
	token := w.starter.supersede()
	w.starter.items = nil
	w.starter.loading = false
	if !w.mode.Valid() || w.closed {
		return
	}

	ctx, cancel := w.childContext()
	w.starter.cancel = cancel
	w.starter.loading = true
	req := tutor.StarterRequest{Mode: w.mode, UploadedTask: w.task}
	rotation := w.starterRotation

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer cancel()

		items, err := w.svc.Starters.Suggestions(ctx, req)
		items = cleanSuggestions(items)
		if err != nil && !isCanceled(err) {
			log.Warn().Err(err).Str("mode", string(req.Mode)).Msg("starter suggestions failed, using local prompts")
		}
		if err != nil || len(items) == 0 {
			items = suggest.Starters(req.Mode, req.UploadedTask, rotation)
		}

		w.mu.Lock()
		if w.closed || token != w.starter.token {
			w.mu.Unlock()
			return
		}
		w.starter.loading = false
		w.starter.cancel = nil
		w.starter.items = items
		w.mu.Unlock()

		w.emit(Event{Kind: EventSuggestionsUpdated})
	}()
}

// startFollowupsLocked supersedes any follow-up fetch and starts a new one
// once a mode is selected and a question has been answered.
func (w *Workspace) startFollowupsLocked() {
	if !w.mode.Valid() || w.lastAsked == "" || w.closed {
		return
	}
	token := w.followup.supersede()

	ctx, cancel := w.childContext()
	w.followup.cancel = cancel
	w.followup.loading = true
	w.followup.items = nil
	w.advisory = ""
	req := tutor.FollowupRequest{SessionID: w.sessionID, Mode: w.mode, UploadedTask: w.task}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer cancel()

		tips, err := w.svc.Followups.Followups(ctx, req)

		w.mu.Lock()
		if w.closed || token != w.followup.token {
			w.mu.Unlock()
			return
		}
		w.followup.loading = false
		w.followup.cancel = nil
		tips = cleanSuggestions(tips)
		switch {
		case err != nil:
			w.advisory = userMessage(err, MsgFollowupsFailed)
		case len(tips) == 0:
			w.advisory = MsgNoFollowups
		default:
			w.followup.items = tips
		}
		w.mu.Unlock()

		if err != nil {
			log.Warn().Err(err).Str("session", req.SessionID).Msg("follow-up suggestions failed")
		}
		w.emit(Event{Kind: EventSuggestionsUpdated})
	}()
}

// cleanSuggestions drops blank entries and keeps at most three.
func cleanSuggestions(items []string) []string {
	items = lo.FilterMap(items, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
	if len(items) > suggest.MaxTips {
		items = items[:suggest.MaxTips]
	}
	return items
}
