package types

import "sort"

// HookResult describes the specification edits performed by one build-log hook.
// Added and Removed map a %files section header to the entries touched there.
type HookResult struct {
	Added          map[string][]string `yaml:"added,omitempty" json:"added,omitempty"`
	Removed        map[string][]string `yaml:"removed,omitempty" json:"removed,omitempty"`
	UnableToRemove []string            `yaml:"unable_to_remove,omitempty" json:"unable_to_remove,omitempty"`
}

// Changed reports whether the result describes at least one edit.
func (r HookResult) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// Empty reports whether the result carries nothing worth recording.
func (r HookResult) Empty() bool {
	return !r.Changed() && len(r.UnableToRemove) == 0
}

// Sections returns the section names present in either Added or Removed, sorted.
func (r HookResult) Sections() []string {
	seen := make(map[string]bool)
	for s := range r.Added {
		seen[s] = true
	}
	for s := range r.Removed {
		seen[s] = true
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Merge unions other into a copy of r. Lists are concatenated in order with
// duplicates dropped, so entries from an earlier pass keep their position.
func (r HookResult) Merge(other HookResult) HookResult {
	return HookResult{
		Added:          mergeSections(r.Added, other.Added),
		Removed:        mergeSections(r.Removed, other.Removed),
		UnableToRemove: appendUnique(append([]string(nil), r.UnableToRemove...), other.UnableToRemove...),
	}
}

func mergeSections(a, b map[string][]string) map[string][]string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string][]string, len(a)+len(b))
	for section, entries := range a {
		out[section] = appendUnique(nil, entries...)
	}
	for section, entries := range b {
		out[section] = appendUnique(out[section], entries...)
	}
	return out
}

func appendUnique(dst []string, items ...string) []string {
	seen := make(map[string]bool, len(dst)+len(items))
	for _, d := range dst {
		seen[d] = true
	}
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		dst = append(dst, it)
	}
	return dst
}
