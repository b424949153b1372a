package securitytxt

// Rule is an explicit, named validity rule.
//
// ID must be stable across versions. Apply must be deterministic and
// side-effect free.
type Rule struct {
	ID    string
	Apply func(*SecurityTxt) error
}

// validityRules returns the v1 rules in evaluation order. Rule order is the
// reporting order; keep it stable.
func validityRules() []Rule {
	required := func(ruleID, key string, get func(*SecurityTxt) bool) Rule {
		return Rule{ID: ruleID, Apply: func(t *SecurityTxt) error {
			if !get(t) {
				return newError(KindValidation, ruleID, "missing required field: "+key)
			}
			return nil
		}}
	}
	return []Rule{
		required("SECTXT-VAL-101", keyName, func(t *SecurityTxt) bool { return t.Name != "" }),
		required("SECTXT-VAL-102", keyProjectURL, func(t *SecurityTxt) bool { return t.ProjectURL != "" }),
		required("SECTXT-VAL-103", keyPreferredLanguages, func(t *SecurityTxt) bool { return len(t.PreferredLanguages) > 0 }),
		required("SECTXT-VAL-104", keyContacts, func(t *SecurityTxt) bool { return len(t.Contacts) > 0 }),
		required("SECTXT-VAL-105", keyPolicy, func(t *SecurityTxt) bool { return t.Policy != "" }),
		{ID: "SECTXT-VAL-110", Apply: func(t *SecurityTxt) error {
			if t.Expiry != "" && !isDateShape(t.Expiry) {
				return newError(KindValidation, "SECTXT-VAL-110", "expiry is not YYYY-MM-DD shaped: "+t.Expiry)
			}
			return nil
		}},
	}
}

// Validate checks the v1 validity rules: the mandatory fields must be present
// and non-empty, and expiry (when set) must be YYYY-MM-DD shaped. It returns
// the first violation. Decoding does not call this; a structurally well-formed
// block always decodes, and callers choose whether to treat invalidity as an
// error or a report finding.
func (t *SecurityTxt) Validate() error {
	for _, r := range validityRules() {
		if err := r.Apply(t); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAll returns every validity violation, in stable rule order.
func (t *SecurityTxt) ValidateAll() []error {
	var out []error
	for _, r := range validityRules() {
		if err := r.Apply(t); err != nil {
			out = append(out, err)
		}
	}
	return out
}

// isDateShape reports whether s looks like YYYY-MM-DD. Only the shape is
// checked; calendar validity is intentionally out of scope.
func isDateShape(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, c := range []byte(s) {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
