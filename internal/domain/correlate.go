package domain

import "strings"

// minTokenLength filters stop-words and short abbreviations out of
// location labels before matching.
const minTokenLength = 4

// LocationTokens splits a location label into match tokens: whitespace
// separated, longer than three characters, lowercased. "Harris County"
// yields ["harris" "county"]. Punctuation is left attached to its token.
func LocationTokens(label string) []string {
	fields := strings.Fields(label)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= minTokenLength {
			tokens = append(tokens, strings.ToLower(f))
		}
	}
	return tokens
}

// Corpus holds a free-text item collection prepared for repeated matching.
// The per-item search text (title plus body, lowercased) is computed once
// so correlating N events costs N substring scans, not N lowercasing
// passes. A Corpus is immutable after construction and safe for concurrent
// readers.
type Corpus struct {
	items []TextItem
	texts []string
}

// NewCorpus prepares a text-item collection for correlation.
func NewCorpus(items []TextItem) *Corpus {
	c := &Corpus{
		items: items,
		texts: make([]string, len(items)),
	}
	for i, it := range items {
		c.texts[i] = strings.ToLower(it.Title + " " + it.Body)
	}
	return c
}

func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Correlate returns the corpus items lexically linked to the event: any
// location token appearing as a substring of an item's text records that
// item exactly once, in corpus order. An event with an empty location
// label matches nothing; that is expected, not an error. The heuristic is
// permissive: false positives are acceptable for a "possible corroboration"
// signal.
func Correlate(e Event, c *Corpus) []TextItem {
	if c.Len() == 0 {
		return nil
	}
	tokens := LocationTokens(e.LocationLabel)
	if len(tokens) == 0 {
		return nil
	}

	var matched []TextItem
	for i, text := range c.texts {
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				matched = append(matched, c.items[i])
				break
			}
		}
	}
	return matched
}

// KeywordFilter keeps the items whose text contains any of the keywords,
// case-insensitive. Used to trim a raw news corpus down to disaster-related
// items before correlation.
func KeywordFilter(items []TextItem, keywords []string) []TextItem {
	if len(keywords) == 0 {
		return items
	}
	kept := make([]TextItem, 0, len(items))
	for _, it := range items {
		text := strings.ToLower(it.Title + " " + it.Body)
		for _, kw := range keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				kept = append(kept, it)
				break
			}
		}
	}
	return kept
}
