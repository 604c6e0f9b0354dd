package revision

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

var groupW = GroupKey{VentureID: "ventureX", WorkID: "workY", DisciplineID: "disciplineZ", DesignerID: "designerW"}

func revisionsIn(group GroupKey, numbers ...int) []Revision {
	revs := make([]Revision, len(numbers))
	for i, n := range numbers {
		revs[i] = Revision{
			ID:           fmt.Sprintf("%s-%d", group.DesignerID, n),
			VentureID:    group.VentureID,
			WorkID:       group.WorkID,
			DisciplineID: group.DisciplineID,
			DesignerID:   group.DesignerID,
			Number:       n,
		}
	}
	return revs
}

func requireSequenceError(t *testing.T, err error, kind error, expected int) {
	t.Helper()
	require.ErrorIs(t, err, kind)
	var seqErr *SequenceError
	require.True(t, errors.As(err, &seqErr))
	require.Equal(t, expected, seqErr.Expected)
}

func TestValidateSequence_EmptyGroup(t *testing.T) {
	require.NoError(t, ValidateSequence(nil, groupW, 1, ""))
	requireSequenceError(t, ValidateSequence(nil, groupW, 0, ""), ErrNonSequentialRevisionNumber, 1)
	requireSequenceError(t, ValidateSequence(nil, groupW, 2, ""), ErrNonSequentialRevisionNumber, 1)
}

func TestValidateSequence_ContiguousGroup(t *testing.T) {
	existing := revisionsIn(groupW, 1, 2, 3)
	require.NoError(t, ValidateSequence(existing, groupW, 4, ""))

	for _, n := range []int{1, 2, 3} {
		requireSequenceError(t, ValidateSequence(existing, groupW, n, ""), ErrDuplicateRevisionNumber, 4)
	}
	for _, n := range []int{0, 5, 6, 10} {
		requireSequenceError(t, ValidateSequence(existing, groupW, n, ""), ErrNonSequentialRevisionNumber, 4)
	}
}

func TestValidateSequence_Scenario(t *testing.T) {
	existing := revisionsIn(groupW, 1, 2)

	requireSequenceError(t, ValidateSequence(existing, groupW, 2, ""), ErrDuplicateRevisionNumber, 3)
	requireSequenceError(t, ValidateSequence(existing, groupW, 4, ""), ErrNonSequentialRevisionNumber, 3)
	require.NoError(t, ValidateSequence(existing, groupW, 3, ""))
}

func TestValidateSequence_GroupsAreIndependent(t *testing.T) {
	existing := revisionsIn(groupW, 1, 2, 3)
	for _, other := range []GroupKey{
		{VentureID: "other", WorkID: "workY", DisciplineID: "disciplineZ", DesignerID: "designerW"},
		{VentureID: "ventureX", WorkID: "other", DisciplineID: "disciplineZ", DesignerID: "designerW"},
		{VentureID: "ventureX", WorkID: "workY", DisciplineID: "other", DesignerID: "designerW"},
		{VentureID: "ventureX", WorkID: "workY", DisciplineID: "disciplineZ", DesignerID: "other"},
	} {
		require.NoError(t, ValidateSequence(existing, other, 1, ""))
		require.Error(t, ValidateSequence(existing, other, 4, ""))
	}
}

func TestValidateSequence_SelfEditIsIdempotent(t *testing.T) {
	// Gaps don't matter for an unchanged re-save.
	existing := revisionsIn(groupW, 1, 2, 7)
	for _, rev := range existing {
		require.NoError(t, ValidateSequence(existing, rev.Group(), rev.Number, rev.ID))
	}
}

func TestValidateSequence_EditChangingNumber(t *testing.T) {
	existing := revisionsIn(groupW, 1, 2, 3)
	last := existing[2]

	// Renumbering the last revision to its own slot again is a self-edit.
	require.NoError(t, ValidateSequence(existing, groupW, 3, last.ID))
	// Excluding it, the next number of the rest is 3.
	requireSequenceError(t, ValidateSequence(existing, groupW, 4, last.ID), ErrNonSequentialRevisionNumber, 3)
	requireSequenceError(t, ValidateSequence(existing, groupW, 2, last.ID), ErrDuplicateRevisionNumber, 3)
}

func TestValidateSequence_EditMovingGroup(t *testing.T) {
	other := GroupKey{VentureID: "ventureX", WorkID: "workY", DisciplineID: "disciplineZ", DesignerID: "designerV"}
	existing := append(revisionsIn(groupW, 1, 2), revisionsIn(other, 1)...)
	moving := existing[1]

	require.NoError(t, ValidateSequence(existing, other, 2, moving.ID))
	requireSequenceError(t, ValidateSequence(existing, other, 1, moving.ID), ErrDuplicateRevisionNumber, 2)
}

func TestValidateSequence_DoesNotMutateInput(t *testing.T) {
	existing := revisionsIn(groupW, 1, 2)
	before := append([]Revision(nil), existing...)
	_ = ValidateSequence(existing, groupW, 3, "")
	require.Equal(t, before, existing)
}

func TestNextNumber(t *testing.T) {
	require.Equal(t, 1, NextNumber(nil, groupW))
	require.Equal(t, 3, NextNumber(revisionsIn(groupW, 1, 2), groupW))
	require.Equal(t, 1, NextNumber(revisionsIn(groupW, 1, 2), GroupKey{VentureID: "elsewhere"}))
}

func TestSequenceErrorMessage(t *testing.T) {
	err := ValidateSequence(revisionsIn(groupW, 1, 2), groupW, 4, "")
	require.Contains(t, err.Error(), "use 3")
	err = ValidateSequence(revisionsIn(groupW, 1, 2), groupW, 2, "")
	require.Contains(t, err.Error(), "next number is 3")
}
