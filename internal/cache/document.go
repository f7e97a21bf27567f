package cache

import (
	"fmt"
	"sort"
)

// State is the approval state of a cached translation
type State string

const (
	NotApproved State = "not_approved"
	Approved    State = "approved"
	Incorrect   State = "incorrect"
)

// DefaultCategory is the approved bucket used for new approvals
const DefaultCategory = "others"

// ParseState converts a stored state name into a State
func ParseState(s string) (State, error) {
	switch State(s) {
	case NotApproved, Approved, Incorrect:
		return State(s), nil
	default:
		return "", fmt.Errorf("unknown translation state %q", s)
	}
}

// Document is the whole cache in its persisted shape
type Document struct {
	Approved    map[string]map[string]string `json:"approved"`
	NotApproved map[string]string            `json:"not_approved"`
	Incorrect   map[string]string            `json:"incorrect"`
}

// NewDocument returns an empty document with all buckets allocated
func NewDocument() *Document {
	d := &Document{}
	d.ensure()
	return d
}

// ensure allocates buckets missing after decoding a partial document
func (d *Document) ensure() {
	if d.Approved == nil {
		d.Approved = make(map[string]map[string]string)
	}
	if d.Approved[DefaultCategory] == nil {
		d.Approved[DefaultCategory] = make(map[string]string)
	}
	if d.NotApproved == nil {
		d.NotApproved = make(map[string]string)
	}
	if d.Incorrect == nil {
		d.Incorrect = make(map[string]string)
	}
}

// Normalize allocates missing buckets; call it after decoding
func (d *Document) Normalize() *Document {
	d.ensure()
	return d
}

// LookupApproved searches every approved category in name order
func (d *Document) LookupApproved(phrase string) (string, bool) {
	categories := make([]string, 0, len(d.Approved))
	for name := range d.Approved {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	for _, name := range categories {
		if tr, ok := d.Approved[name][phrase]; ok {
			return tr, true
		}
	}
	return "", false
}

// LookupNotApproved returns the not-approved translation of phrase
func (d *Document) LookupNotApproved(phrase string) (string, bool) {
	tr, ok := d.NotApproved[phrase]
	return tr, ok
}

// FindNotApprovedByTranslation returns every not-approved phrase whose
// translation equals translation, sorted by phrase.
func (d *Document) FindNotApprovedByTranslation(translation string) []string {
	var phrases []string
	for phrase, tr := range d.NotApproved {
		if tr == translation {
			phrases = append(phrases, phrase)
		}
	}
	sort.Strings(phrases)
	return phrases
}

// Put removes phrase from whichever bucket holds it and stores it in the
// bucket for state. Approved entries go to DefaultCategory.
func (d *Document) Put(phrase, translation string, state State) error {
	d.ensure()

	switch state {
	case NotApproved, Approved, Incorrect:
	default:
		return fmt.Errorf("unknown translation state %q", state)
	}

	for _, category := range d.Approved {
		delete(category, phrase)
	}
	delete(d.NotApproved, phrase)
	delete(d.Incorrect, phrase)

	switch state {
	case Approved:
		d.Approved[DefaultCategory][phrase] = translation
	case Incorrect:
		d.Incorrect[phrase] = translation
	default:
		d.NotApproved[phrase] = translation
	}
	return nil
}

// Len returns the number of entries across all buckets
func (d *Document) Len() int {
	n := len(d.NotApproved) + len(d.Incorrect)
	for _, category := range d.Approved {
		n += len(category)
	}
	return n
}
