// Package tutor holds the tutoring vocabulary (modes, levels, the structured
// reply) and the LLM-backed services behind the tutor, starter-suggestion
// and follow-up endpoints.
package tutor

import (
	"fmt"
	"strings"
)

// Mode is a tutoring style. The zero value means no mode is selected.
type Mode string

const (
	ModeUnset      Mode = ""
	ModeDebugging  Mode = "debugging"
	ModeTheory     Mode = "theory"
	ModeCodingHelp Mode = "coding-help"
)

// Modes lists the selectable modes in display order.
func Modes() []Mode {
	return []Mode{ModeDebugging, ModeTheory, ModeCodingHelp}
}

// ParseMode accepts the canonical names plus "coding help" and
// "coding_help". The empty string parses to ModeUnset.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ModeUnset, nil
	case "debugging":
		return ModeDebugging, nil
	case "theory":
		return ModeTheory, nil
	case "coding-help", "coding help", "coding_help":
		return ModeCodingHelp, nil
	}
	return ModeUnset, fmt.Errorf("unknown mode %q", s)
}

// Label is the human-readable name used in prompts and the UI.
func (m Mode) Label() string {
	if m == ModeCodingHelp {
		return "coding help"
	}
	return string(m)
}

// Valid reports whether m is one of the three selectable modes.
func (m Mode) Valid() bool {
	return m == ModeDebugging || m == ModeTheory || m == ModeCodingHelp
}

// Topic is the subject line sent with a tutor question in this mode.
func (m Mode) Topic() string {
	switch m {
	case ModeCodingHelp:
		return "Programming"
	case ModeTheory:
		return "Computer Science Theory"
	default:
		return "Debugging"
	}
}

// Level is a difficulty tier. The zero value means no level is selected.
type Level string

const (
	LevelUnset        Level = ""
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelExpert       Level = "expert"
)

// Levels lists the selectable levels from easiest to hardest.
func Levels() []Level {
	return []Level{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert}
}

// ParseLevel parses a level name. The empty string parses to LevelUnset.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case LevelUnset, LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return l, nil
	}
	return LevelUnset, fmt.Errorf("unknown level %q", s)
}

// Result is the structured tutoring reply.
type Result struct {
	ConceptSummary     string   `json:"conceptSummary"`
	MisconceptionCheck string   `json:"misconceptionCheck"`
	Hints              []string `json:"hints"`
	NextStepQuestion   string   `json:"nextStepQuestion"`
}

// Reply is what the model produced: either a Result that matched the reply
// schema, or raw text that did not.
type Reply struct {
	structured *Result
	raw        string
}

// Structured wraps a schema-conforming result.
func Structured(r Result) Reply {
	return Reply{structured: &r}
}

// Unstructured wraps raw model text that could not be parsed.
func Unstructured(raw string) Reply {
	return Reply{raw: raw}
}

// IsStructured reports whether the model's output matched the schema.
func (r Reply) IsStructured() bool {
	return r.structured != nil
}

// Raw returns the unparsed text of an unstructured reply.
func (r Reply) Raw() string {
	return r.raw
}

// Result returns the structured result, or the fallback built from the
// raw text when the reply is unstructured.
func (r Reply) Result() Result {
	if r.structured != nil {
		return *r.structured
	}
	return FallbackResult(r.raw)
}

// FallbackResult keeps the reply contract when the model ignored the schema:
// the raw text becomes the concept summary and hints stay empty.
func FallbackResult(raw string) Result {
	return Result{
		ConceptSummary:     raw,
		MisconceptionCheck: "Unable to parse structured reply; showing raw explanation.",
		Hints:              []string{},
		NextStepQuestion:   "What part of the problem do you want to focus on next?",
	}
}

// User-facing error strings shared by the HTTP server and the in-process
// service adapter.
const (
	MsgInvalidJSON         = "Invalid JSON body."
	MsgMissingQuestion     = "Missing question. Provide the student's question or prompt."
	MsgTutorUnavailable    = "Tutor is unavailable. Please try again soon."
	MsgMissingMode         = "Missing mode. Provide a mode (debugging, theory, or coding help)."
	MsgSuggestionsFailed   = "Failed to generate suggestions. Please try again."
	MsgMissingFollowupArgs = "Missing sessionId or mode."
	MsgFollowupsFailed     = "Unable to generate follow-up suggestions."
	MsgMisconfigured       = "Tutor is misconfigured. Set CODECOACH_LLM_PROVIDER and the matching API key."
)

// UnmarshalText accepts the same spellings as ParseMode. Unknown names are
// kept verbatim so callers can decide how strict to be.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		*m = Mode(b)
		return nil
	}
	*m = parsed
	return nil
}

// StarterRequest is the body of a starter-suggestion request.
type StarterRequest struct {
	Mode         Mode   `json:"mode"`
	UploadedTask string `json:"uploadedTask,omitempty"`
}

// FollowupRequest is the body of a follow-up request.
type FollowupRequest struct {
	SessionID    string `json:"sessionId"`
	Mode         Mode   `json:"mode"`
	UploadedTask string `json:"uploadedTask,omitempty"`
}

// TutorResponse wraps a tutor reply on the wire.
type TutorResponse struct {
	Result Result `json:"result"`
}

// StarterResponse wraps starter suggestions on the wire.
type StarterResponse struct {
	Suggestions []string `json:"suggestions"`
}

// FollowupResponse wraps follow-up prompts on the wire.
type FollowupResponse struct {
	Tips []string `json:"tips"`
}

// ParsePDFResponse carries extracted task text on the wire.
type ParsePDFResponse struct {
	Text string `json:"text"`
}
