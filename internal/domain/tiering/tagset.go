package tiering

import "strings"

// TagSeparator is the literal separator used by the tabular tag column.
const TagSeparator = ", "

// TagSet is a value object holding a customer's freeform tags as an ordered
// list of distinct labels. Order is significant: a tier tag, when present,
// is kept at the head of the list.
// TagSet is immutable - all operations return new instances.
type TagSet struct {
	tags []string
}

// ParseTags parses the raw tag column into a TagSet. Splitting happens on
// the literal ", " separator; empty input yields an empty set. Duplicate
// labels keep their first occurrence.
func ParseTags(raw string) TagSet {
	if raw == "" {
		return TagSet{}
	}
	parts := strings.Split(raw, TagSeparator)
	seen := make(map[string]struct{}, len(parts))
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		tags = append(tags, p)
	}
	return TagSet{tags: tags}
}

// NewTagSet creates a TagSet from a list of labels, keeping first
// occurrences of duplicates
func NewTagSet(tags ...string) TagSet {
	return TagSet{tags: dedupe(tags)}
}

// String returns the canonical serialization: labels joined with ", ",
// a single label unchanged, the empty set as the empty string
func (s TagSet) String() string {
	return strings.Join(s.tags, TagSeparator)
}

// Tags returns a copy of the labels in order
func (s TagSet) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Len returns the number of labels
func (s TagSet) Len() int {
	return len(s.tags)
}

// IsEmpty returns true if the set holds no labels
func (s TagSet) IsEmpty() bool {
	return len(s.tags) == 0
}

// Contains returns true if the given label is present
func (s TagSet) Contains(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ContainsAny returns true if any of the given labels is present
func (s TagSet) ContainsAny(tags []string) bool {
	for _, t := range tags {
		if s.Contains(t) {
			return true
		}
	}
	return false
}

// Remove returns a new TagSet with every listed label dropped, preserving
// the relative order of the rest
func (s TagSet) Remove(tags []string) TagSet {
	if len(s.tags) == 0 {
		return s
	}
	drop := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		drop[t] = struct{}{}
	}
	kept := make([]string, 0, len(s.tags))
	for _, t := range s.tags {
		if _, ok := drop[t]; !ok {
			kept = append(kept, t)
		}
	}
	return TagSet{tags: kept}
}

// Prepend returns a new TagSet with the label at the head. A duplicate
// elsewhere in the list is dropped so the set stays distinct.
func (s TagSet) Prepend(tag string) TagSet {
	return TagSet{tags: dedupe(append([]string{tag}, s.tags...))}
}

// Equals returns true if both sets hold the same labels in the same order
func (s TagSet) Equals(other TagSet) bool {
	if len(s.tags) != len(other.tags) {
		return false
	}
	for i, t := range s.tags {
		if t != other.tags[i] {
			return false
		}
	}
	return true
}

func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
