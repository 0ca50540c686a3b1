// Package suggest produces the advisory strings shown next to the question
// box: rule-based typing tips and locally generated starter prompts.
package suggest

import (
	_ "embed"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/codecoach/internal/tutor"
)

// MaxTips bounds every suggestion list.
const MaxTips = 3

// minTextLength is the trimmed length at or below which no tips are shown.
const minTextLength = 2

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rule maps trigger keywords to a fixed list of tips.
type Rule struct {
	Keywords []string `yaml:"keywords"`
	Tips     []string `yaml:"tips"`
}

// ModeRules is the ordered rule list for one mode plus its fallback.
type ModeRules struct {
	Rules   []Rule   `yaml:"rules"`
	Default []string `yaml:"default"`
}

// RuleSet is a parsed typing-tip table.
type RuleSet struct {
	TaskTip string
	Modes   map[tutor.Mode]ModeRules
}

type ruleFile struct {
	TaskTip string               `yaml:"task_tip"`
	Modes   map[string]ModeRules `yaml:"modes"`
}

// ParseRules decodes and validates a YAML rule table. Every mode must be
// present and every tip list must hold one to three entries.
func ParseRules(data []byte) (*RuleSet, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	rs := &RuleSet{
		TaskTip: strings.TrimSpace(f.TaskTip),
		Modes:   make(map[tutor.Mode]ModeRules, len(f.Modes)),
	}
	if rs.TaskTip == "" {
		return nil, fmt.Errorf("parse rules: task_tip is required")
	}

	for name, mr := range f.Modes {
		mode, err := tutor.ParseMode(name)
		if err != nil || !mode.Valid() {
			return nil, fmt.Errorf("parse rules: unknown mode %q", name)
		}
		if err := checkTips(mr.Default); err != nil {
			return nil, fmt.Errorf("parse rules: %s default: %w", name, err)
		}
		for i := range mr.Rules {
			r := &mr.Rules[i]
			r.Keywords = lo.FilterMap(r.Keywords, func(k string, _ int) (string, bool) {
				k = strings.ToLower(k)
				return k, strings.TrimSpace(k) != ""
			})
			if len(r.Keywords) == 0 {
				return nil, fmt.Errorf("parse rules: %s rule %d has no keywords", name, i+1)
			}
			if err := checkTips(r.Tips); err != nil {
				return nil, fmt.Errorf("parse rules: %s rule %d: %w", name, i+1, err)
			}
		}
		rs.Modes[mode] = mr
	}

	for _, m := range tutor.Modes() {
		if _, ok := rs.Modes[m]; !ok {
			return nil, fmt.Errorf("parse rules: mode %q is missing", m)
		}
	}
	return rs, nil
}

func checkTips(tips []string) error {
	if len(tips) == 0 || len(tips) > MaxTips {
		return fmt.Errorf("want 1-%d tips, got %d", MaxTips, len(tips))
	}
	return nil
}

// DefaultRulesYAML returns the source of the built-in rule table, a
// starting point for custom rules files.
func DefaultRulesYAML() []byte {
	return append([]byte(nil), defaultRulesYAML...)
}

// DefaultRules returns the built-in rule table.
func DefaultRules() *RuleSet {
	rs, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(err)
	}
	return rs
}

// Suggest returns up to three typing tips for text. Nothing is returned
// for near-empty text or when no mode is selected. With a task uploaded and
// no mention of it in text, the last tip gives way to a reminder to
// reference the task.
func (rs *RuleSet) Suggest(text string, mode tutor.Mode, hasTask bool) []string {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) <= minTextLength || !mode.Valid() {
		return nil
	}
	mr, ok := rs.Modes[mode]
	if !ok {
		return nil
	}

	lower := strings.ToLower(trimmed)
	base := mr.Default
	for _, r := range mr.Rules {
		if lo.SomeBy(r.Keywords, func(k string) bool { return strings.Contains(lower, k) }) {
			base = r.Tips
			break
		}
	}

	tips := append([]string(nil), base...)
	if hasTask && !strings.Contains(lower, "task") && !strings.Contains(lower, "assignment") {
		if len(tips) >= MaxTips {
			tips = tips[:MaxTips-1]
		}
		tips = append(tips, rs.TaskTip)
	}
	return tips
}

// Table is a concurrency-safe holder for the active RuleSet so it can be
// swapped while readers keep calling Suggest.
type Table struct {
	current atomic.Pointer[RuleSet]
}

// NewTable creates a table serving rs.
func NewTable(rs *RuleSet) *Table {
	t := &Table{}
	t.current.Store(rs)
	return t
}

// Rules returns the active rule set.
func (t *Table) Rules() *RuleSet {
	return t.current.Load()
}

// Replace swaps in a new rule set.
func (t *Table) Replace(rs *RuleSet) {
	t.current.Store(rs)
}

// Suggest delegates to the active rule set.
func (t *Table) Suggest(text string, mode tutor.Mode, hasTask bool) []string {
	return t.current.Load().Suggest(text, mode, hasTask)
}
