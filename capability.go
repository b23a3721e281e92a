package openinghours

// This file is the capability checker / validator (C6). Capability is
// represented as a closed bitmask so validation is a pure fold over the
// AST, per DESIGN.md ("capability bitmask as sum of requirements") — a
// NotImplemented bit keeps the data-driven rejection list (school holidays,
// periodic open-ended year ranges, bare timepoints) separate from the
// "recognized but needs a collaborator" bits.

// requiredCapabilities folds every rule's selectors into the bitmask of
// §4.5.
func requiredCapabilities(rules []Rule) Capability {
	var caps Capability
	for _, r := range rules {
		caps |= ruleCapabilities(r)
	}
	return caps
}

func ruleCapabilities(r Rule) Capability {
	var caps Capability

	if r.Year != nil && r.Year.Open && r.Year.Interval > 0 {
		caps |= CapNotImplemented
	}

	if r.Weekday != nil {
		for _, h := range r.Weekday.Holidays {
			switch h.Kind {
			case PublicHoliday:
				caps |= CapPublicHoliday
			case SchoolHoliday:
				caps |= CapSchoolHoliday | CapNotImplemented
			}
		}
	}

	if r.Time != nil {
		for _, sp := range r.Time.Spans {
			if sp.Begin.isEvent() || (sp.HasEnd && sp.End.isEvent()) {
				caps |= CapLocation
			}
			if sp.PeriodClockForm {
				caps |= CapNotImplemented
			}
			if !sp.HasEnd && !sp.OpenEnd {
				caps |= CapNotImplemented
			}
		}
	}

	return caps
}

// validate runs the capability checker against the given collaborators and
// returns the resulting error code (NoError if the expression can be
// evaluated as-is).
func validate(rules []Rule, c Collaborators) ErrorCode {
	for _, r := range rules {
		if r.Year != nil && r.Year.Open && r.Year.Interval > 0 {
			return UnsupportedFeature
		}

		if r.Weekday != nil {
			for _, h := range r.Weekday.Holidays {
				switch h.Kind {
				case SchoolHoliday:
					return UnsupportedFeature
				case PublicHoliday:
					if c.Holidays == nil {
						return MissingRegion
					}
				}
			}
		}

		if r.Time != nil {
			for _, sp := range r.Time.Spans {
				if sp.PeriodClockForm {
					return IncompatibleMode
				}
				if !sp.HasEnd && !sp.OpenEnd {
					return IncompatibleMode
				}
				if (sp.Begin.isEvent() || (sp.HasEnd && sp.End.isEvent())) && c.SunEvents == nil {
					return MissingLocation
				}
			}
		}
	}

	return NoError
}
