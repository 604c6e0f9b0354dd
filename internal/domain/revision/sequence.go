package revision

// ValidateSequence checks that number may be stored in group given the
// existing revisions. excludeID names the revision being edited, if any.
//
// An edit that keeps both its group and its number is always accepted. Any
// other candidate must not reuse a number of its group and must be exactly one
// more than the group's highest number (1 for an empty group).
func ValidateSequence(existing []Revision, group GroupKey, number int, excludeID string) error {
	if excludeID != "" {
		for _, r := range existing {
			if r.ID == excludeID && r.Number == number && r.Group() == group {
				return nil
			}
		}
	}

	highest := 0
	duplicate := false
	for _, r := range existing {
		if r.ID == excludeID && excludeID != "" {
			continue
		}
		if r.Group() != group {
			continue
		}
		if r.Number == number {
			duplicate = true
		}
		if r.Number > highest {
			highest = r.Number
		}
	}
	expected := highest + 1

	if duplicate {
		return &SequenceError{Kind: ErrDuplicateRevisionNumber, Number: number, Expected: expected}
	}
	if number != expected {
		return &SequenceError{Kind: ErrNonSequentialRevisionNumber, Number: number, Expected: expected}
	}
	return nil
}

// NextNumber returns the number the next revision of group must use.
func NextNumber(existing []Revision, group GroupKey) int {
	highest := 0
	for _, r := range existing {
		if r.Group() == group && r.Number > highest {
			highest = r.Number
		}
	}
	return highest + 1
}
