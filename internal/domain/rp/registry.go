package rp

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Registry is the immutable action table. Lookup is case-insensitive;
// matching is longest-name-first so a multi-word action is never shadowed
// by a shorter prefix.
type Registry struct {
	byName map[string]ActionDefinition
	// names sorted by descending length, the order Match tries them in
	names []string
}

func NewRegistry(defs []ActionDefinition) (*Registry, error) {
	byName := make(map[string]ActionDefinition, len(defs))
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		key := strings.ToLower(strings.TrimSpace(def.Name))
		if key == "" {
			return nil, fmt.Errorf("action with empty name")
		}
		if _, dup := byName[key]; dup {
			return nil, fmt.Errorf("duplicate action name %q", key)
		}
		def.Name = key
		byName[key] = def
		names = append(names, key)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return &Registry{byName: byName, names: names}, nil
}

func (r *Registry) Lookup(name string) (ActionDefinition, bool) {
	def, ok := r.byName[strings.ToLower(name)]
	return def, ok
}

func (r *Registry) Len() int { return len(r.byName) }

// ByCategory returns the catalog grouped for presentation, names sorted
// alphabetically within each category.
func (r *Registry) ByCategory() map[Category][]ActionDefinition {
	out := map[Category][]ActionDefinition{}
	for _, def := range r.byName {
		out[def.Category] = append(out[def.Category], def)
	}
	for _, defs := range out {
		sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	}
	return out
}

// Match extracts the leading action command from free text. The remainder is
// the original-case text after the matched name, trimmed. A match is only
// accepted at a word boundary so "kiss" never fires inside "kisser".
func (r *Registry) Match(text string) (ActionDefinition, string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ActionDefinition{}, "", false
	}
	for _, name := range r.names {
		end, ok := foldPrefix(trimmed, name)
		if !ok {
			continue
		}
		if end < len(trimmed) && trimmed[end] != ' ' {
			continue
		}
		remainder := strings.TrimSpace(trimmed[end:])
		return r.byName[name], remainder, true
	}
	return ActionDefinition{}, "", false
}

// foldPrefix reports the byte offset in text just past a case-insensitive
// match of name. Matching rune by rune keeps the offset aligned with the
// original text even when an uppercase form is wider than its lowercase
// mapping (lowercasing the whole string first would desynchronize them).
func foldPrefix(text, name string) (int, bool) {
	offset := 0
	for _, want := range name {
		if offset >= len(text) {
			return 0, false
		}
		got, size := utf8.DecodeRuneInString(text[offset:])
		if unicode.ToLower(got) != want {
			return 0, false
		}
		offset += size
	}
	return offset, true
}

// DefaultActions is the stock table the bot ships with.
func DefaultActions() []ActionDefinition {
	return []ActionDefinition{
		{Name: "kiss", Category: CategoryBeneficial, TargetDelta: +10, ActorDelta: +1},
		{Name: "romantic kiss", Category: CategoryBeneficial, TargetDelta: +20, ActorDelta: +10},
		{Name: "kiss on the cheek", Category: CategoryBeneficial, TargetDelta: +7, ActorDelta: +3},
		{Name: "hug", Category: CategoryBeneficial, TargetDelta: +15, ActorDelta: +5},
		{Name: "cuddle", Category: CategoryBeneficial, TargetDelta: +12, ActorDelta: +6},
		{Name: "pat", Category: CategoryBeneficial, TargetDelta: +5, ActorDelta: +2},
		{Name: "feed", Category: CategoryBeneficial, TargetDelta: +9, ActorDelta: -2},
		{Name: "give a massage", Category: CategoryBeneficial, TargetDelta: +15, ActorDelta: +3},
		{Name: "sing a song", Category: CategoryBeneficial, TargetDelta: +5, ActorDelta: +1},
		{Name: "give flowers", Category: CategoryBeneficial, TargetDelta: +12, ActorDelta: 0},
		{Name: "heal", Category: CategoryBeneficial, TargetDelta: +25, ActorDelta: -5},

		{Name: "poke", Category: CategoryNeutral},
		{Name: "wave", Category: CategoryNeutral},
		{Name: "nod", Category: CategoryNeutral},
		{Name: "high five", Category: CategoryNeutral},
		{Name: "whisper", Category: CategoryNeutral},
		{Name: "pat on the back", Category: CategoryNeutral, TargetDelta: +5},
		{Name: "comfort", Category: CategoryNeutral, TargetDelta: +5, ActorDelta: +1},

		{Name: "slap", Category: CategoryHostile, TargetDelta: -8},
		{Name: "smack", Category: CategoryHostile, TargetDelta: -12, ActorDelta: -1},
		{Name: "punch", Category: CategoryHostile, TargetDelta: -10, ActorDelta: -1},
		{Name: "bite", Category: CategoryHostile, TargetDelta: -15},
		{Name: "kick", Category: CategoryHostile, TargetDelta: -10},
		{Name: "pinch", Category: CategoryHostile, TargetDelta: -7},
		{Name: "shove", Category: CategoryHostile, TargetDelta: -9, ActorDelta: -1},
		{Name: "insult", Category: CategoryHostile, TargetDelta: -5},
		{Name: "spit", Category: CategoryHostile, TargetDelta: -6},
		{Name: "choke", Category: CategoryHostile, TargetDelta: -25, ActorDelta: -3},
		{Name: "wallop", Category: CategoryHostile, TargetDelta: -20, ActorDelta: -2},
		{Name: "hex", Category: CategoryHostile, TargetDelta: -80, ActorDelta: -10},
	}
}

// MustDefaultRegistry builds the stock registry; the table is static so a
// failure here is a programming error.
func MustDefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultActions())
	if err != nil {
		panic(err)
	}
	return r
}
