package textutil

import "strings"

// SplitName splits a personal name into first, middle and last parts. The
// first word is the first name and the last word the last name; a single
// word fills both. Words in between form the middle name.
func SplitName(name string) (first, middle, last string) {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return "", "", ""
	case 1:
		return words[0], "", words[0]
	}
	return words[0], strings.Join(words[1:len(words)-1], " "), words[len(words)-1]
}

// JoinName joins non-empty name parts with single spaces.
func JoinName(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
