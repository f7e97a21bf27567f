package dictionary

// PhraseTerms lists the search terms that surface a dictionary phrase
type PhraseTerms struct {
	Phrase string
	Terms  []string
}

// TermPhrases lists the dictionary phrases surfaced by one search term
type TermPhrases struct {
	Term    string
	Phrases []string
}

// TermPhrase maps one search term to one dictionary phrase
type TermPhrase struct {
	Term   string
	Phrase string
}

// Rules holds the three equivalent dictionary representations.
// Order matters: it decides the order of phrases in the prompt.
type Rules struct {
	ByPhrase     []PhraseTerms
	BySearchTerm []TermPhrases
	Others       []TermPhrase
}

// CommentRule surfaces Line when any of Triggers occurs in the text
type CommentRule struct {
	Line     string
	Triggers []string
}

// Augmentation appends Clause to a translation when Trigger occurs in the
// original phrase. Approve forces the result to be treated as approved.
type Augmentation struct {
	Trigger string `json:"trigger" yaml:"trigger"`
	Clause  string `json:"clause" yaml:"clause"`
	Approve bool   `json:"approve" yaml:"approve"`
}

// Pairs flattens the rules into (term, phrase) pairs in rule order
func (r Rules) Pairs() []TermPhrase {
	var pairs []TermPhrase
	for _, pt := range r.ByPhrase {
		for _, term := range pt.Terms {
			pairs = append(pairs, TermPhrase{Term: term, Phrase: pt.Phrase})
		}
	}
	for _, tp := range r.BySearchTerm {
		for _, phrase := range tp.Phrases {
			pairs = append(pairs, TermPhrase{Term: tp.Term, Phrase: phrase})
		}
	}
	return append(pairs, r.Others...)
}

// Empty reports whether the rules hold no pairs at all
func (r Rules) Empty() bool {
	return len(r.ByPhrase) == 0 && len(r.BySearchTerm) == 0 && len(r.Others) == 0
}
