package components

import (
	"maps"
	"slices"
)

// TagSet is an unordered set of tags.
type TagSet map[string]struct{}

func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		if t != "" {
			s[t] = struct{}{}
		}
	}
	return s
}

func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Intersects reports whether the sets share at least one tag.
func (s TagSet) Intersects(o TagSet) bool {
	small, large := s, o
	if len(large) < len(small) {
		small, large = large, small
	}
	for t := range small {
		if large.Has(t) {
			return true
		}
	}
	return false
}

// Union returns a new set holding the tags of both sets.
func (s TagSet) Union(o TagSet) TagSet {
	out := make(TagSet, len(s)+len(o))
	maps.Copy(out, s)
	maps.Copy(out, o)
	return out
}

// Sorted returns the tags in lexical order.
func (s TagSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}
