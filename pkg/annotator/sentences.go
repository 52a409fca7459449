package annotator

import (
	"strings"
	"unicode"
)

// abbreviations never end a sentence when followed by a period.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "st": true, "jr": true,
	"sr": true, "gen": true, "gov": true, "sen": true, "rep": true, "hon": true,
	"rev": true, "pres": true, "col": true, "capt": true, "lt": true, "vs": true,
	"etc": true, "no": true, "mt": true, "ft": true, "u.s": true, "u.k": true,
	"e.g": true, "i.e": true,
}

const (
	terminals = ".!?"
	closers   = ".!?\"')]”’"
)

// SplitSentences breaks a paragraph into sentences on terminal punctuation.
// Whitespace is collapsed, trailing quotes and brackets stay with their
// sentence, and common abbreviations and initials do not end a sentence.
// Text without terminal punctuation is returned as a single sentence.
func SplitSentences(paragraph string) []string {
	runes := []rune(strings.Join(strings.Fields(paragraph), " "))
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if !strings.ContainsRune(terminals, r) {
			continue
		}
		end := i + 1
		for end < len(runes) && strings.ContainsRune(closers, runes[end]) {
			end++
		}
		if end < len(runes) && runes[end] != ' ' {
			// Decimal numbers, dotted acronyms and the like.
			i = end - 1
			continue
		}
		if r == '.' && end < len(runes) && isAbbreviation(runes[start:i]) {
			i = end - 1
			continue
		}
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
		i = end - 1
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		out = append(out, rest)
	}
	return out
}

func isAbbreviation(before []rune) bool {
	word := string(before)
	if idx := strings.LastIndexByte(word, ' '); idx >= 0 {
		word = word[idx+1:]
	}
	word = strings.TrimLeft(word, "\"'([“‘")
	if word == "" {
		return false
	}
	w := []rune(word)
	if len(w) == 1 && unicode.IsUpper(w[0]) {
		return true
	}
	return abbreviations[strings.ToLower(word)]
}
