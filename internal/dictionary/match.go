package dictionary

import (
	"strings"

	"codeberg.org/snonux/phrasememo/internal"
)

// orderedSet keeps the first-seen order of its members
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func (s *orderedSet) add(item string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[item]; ok {
		return
	}
	s.seen[item] = struct{}{}
	s.items = append(s.items, item)
}

// Match returns the dictionary phrases whose search term occurs in text,
// case-insensitively, deduplicated in first-seen order.
func Match(text string, rules Rules) []string {
	var set orderedSet
	for _, pair := range rules.Pairs() {
		if internal.ContainsFold(text, pair.Term) {
			set.add(pair.Phrase)
		}
	}
	return set.items
}

// MatchComments returns the comment lines with at least one trigger in text
func MatchComments(text string, rules []CommentRule) []string {
	var set orderedSet
	for _, rule := range rules {
		for _, trigger := range rule.Triggers {
			if internal.ContainsFold(text, trigger) {
				set.add(rule.Line)
				break
			}
		}
	}
	return set.items
}

// Augment evaluates augmentations against the original phrase. Nothing is
// applied unless the first rule's trigger matches; the remaining rules only
// add to it. The returned clauses are joined with ", ".
func Augment(original string, rules []Augmentation) (clause string, approve bool) {
	if len(rules) == 0 || !internal.ContainsFold(original, rules[0].Trigger) {
		return "", false
	}

	clauses := []string{rules[0].Clause}
	approve = rules[0].Approve
	for _, rule := range rules[1:] {
		if internal.ContainsFold(original, rule.Trigger) {
			clauses = append(clauses, rule.Clause)
			approve = approve || rule.Approve
		}
	}
	return strings.Join(clauses, ", "), approve
}

// DefaultAugmentations is the vehicle-category rule applied when the rules
// document does not define its own list.
func DefaultAugmentations() []Augmentation {
	return []Augmentation{
		{
			Trigger: "zterokoł",
			Clause:  `"czterokołowec" - масса до 400 кг в случае перевозки людей и масса до 550 кг в случае перевозки грузов`,
			Approve: true,
		},
		{
			Trigger: "lekk",
			Clause:  `"czterokołowec lekki" - это масса до 350 кг и скорость до 45 км/ч`,
			Approve: true,
		},
	}
}
