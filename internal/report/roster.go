package report

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Roster is the fixed, closed set of team members tracked for target and
// share reporting. Matching is case-folded; display names keep their
// canonical casing.
type Roster struct {
	display []string
	byFold  map[string]string
	emails  map[string]string
}

// NewRoster builds a roster from canonical display names. Email addresses
// default to the first.last@domain pattern derived from the display name;
// overrides map folded names to explicit addresses.
func NewRoster(names []string, mailDomain string, overrides map[string]string) *Roster {
	r := &Roster{
		byFold: make(map[string]string, len(names)),
		emails: make(map[string]string, len(names)),
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		fold := strings.ToLower(name)
		if _, dup := r.byFold[fold]; dup {
			continue
		}
		r.display = append(r.display, name)
		r.byFold[fold] = name
		if mailDomain != "" {
			r.emails[fold] = strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@" + mailDomain
		}
	}
	for fold, addr := range overrides {
		r.emails[strings.ToLower(fold)] = addr
	}
	return r
}

// Members returns the canonical display names in roster order.
func (r *Roster) Members() []string {
	out := make([]string, len(r.display))
	copy(out, r.display)
	return out
}

// Len returns the roster size.
func (r *Roster) Len() int {
	return len(r.display)
}

// Contains reports whether the folded name belongs to the roster.
func (r *Roster) Contains(folded string) bool {
	_, ok := r.byFold[strings.ToLower(folded)]
	return ok
}

// DisplayName restores canonical casing for a folded name. Names outside the
// canonical lookup fall back to title case.
func (r *Roster) DisplayName(folded string) string {
	if name, ok := r.byFold[strings.ToLower(folded)]; ok {
		return name
	}
	return cases.Title(language.English).String(folded)
}

// Email returns the mapped address for a folded member name.
func (r *Roster) Email(folded string) (string, bool) {
	addr, ok := r.emails[strings.ToLower(folded)]
	return addr, ok
}
