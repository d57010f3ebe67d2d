package delivery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, s := range All {
		got, err := Parse(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := Parse("ENTREGADO")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestAfterUpload(t *testing.T) {
	for _, s := range []Status{NoEntregado, RequiereCorreccion, NoAprobado, Pendiente} {
		out, err := AfterUpload(Snapshot{Status: s})
		require.NoError(t, err, s)
		assert.Equal(t, Pendiente, out.Status)
		assert.True(t, out.StampUpload)
	}
}

func TestAfterUpload_InReviewKeepsStatus(t *testing.T) {
	out, err := AfterUpload(Snapshot{Status: EnRevision, EntregaFiles: 1})
	require.NoError(t, err)
	assert.Equal(t, EnRevision, out.Status)
	assert.True(t, out.StampUpload)
}

func TestAfterUpload_ApprovedIsLocked(t *testing.T) {
	_, err := AfterUpload(Snapshot{Status: Aprobado, EntregaFiles: 1})
	assert.ErrorIs(t, err, ErrLocked)
}

func TestAfterFileRemoval(t *testing.T) {
	tests := []struct {
		name      string
		cur       Snapshot
		remaining int
		want      Outcome
		err       error
	}{
		{"last file resets", Snapshot{Status: Pendiente, EntregaFiles: 1}, 0, Outcome{Status: NoEntregado, ClearUpload: true}, nil},
		{"last file from review", Snapshot{Status: EnRevision, EntregaFiles: 1}, 0, Outcome{Status: NoEntregado, ClearUpload: true}, nil},
		{"last file from correction", Snapshot{Status: RequiereCorreccion, EntregaFiles: 1}, 0, Outcome{Status: NoEntregado, ClearUpload: true}, nil},
		{"files remain", Snapshot{Status: Pendiente, EntregaFiles: 2}, 1, Outcome{Status: Pendiente}, nil},
		{"approved locked", Snapshot{Status: Aprobado, EntregaFiles: 1}, 0, Outcome{}, ErrLocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AfterFileRemoval(tt.cur, tt.remaining)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAfterFileRemoval_NeverIntermediate(t *testing.T) {
	for _, s := range All {
		if s == Aprobado {
			continue
		}
		out, err := AfterFileRemoval(Snapshot{Status: s, EntregaFiles: 1}, 0)
		require.NoError(t, err)
		assert.False(t, out.Status.ImpliesSubmission(), "status %s", out.Status)
	}
}

func TestReview(t *testing.T) {
	out, err := Review(Snapshot{Status: Pendiente, EntregaFiles: 1}, Aprobado)
	require.NoError(t, err)
	assert.Equal(t, Aprobado, out.Status)
	assert.True(t, out.StampReview)

	// demotion unlocks an approved delivery
	out, err = Review(Snapshot{Status: Aprobado, EntregaFiles: 1}, EnRevision)
	require.NoError(t, err)
	assert.Equal(t, EnRevision, out.Status)

	_, err = Review(Snapshot{Status: NoEntregado}, Aprobado)
	assert.ErrorIs(t, err, ErrNoSubmission)

	out, err = Review(Snapshot{Status: NoEntregado}, NoAprobado)
	require.NoError(t, err)
	assert.Equal(t, NoAprobado, out.Status)

	_, err = Review(Snapshot{Status: Pendiente, EntregaFiles: 1}, Status("OK"))
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestIssueCorrection(t *testing.T) {
	out, err := IssueCorrection(Snapshot{Status: EnRevision, EntregaFiles: 1}, true, false)
	require.NoError(t, err)
	assert.Equal(t, RequiereCorreccion, out.Status)
	assert.True(t, out.StampReview)

	_, err = IssueCorrection(Snapshot{Status: Pendiente}, false, false)
	assert.ErrorIs(t, err, ErrEmptyFeedback)

	_, err = IssueCorrection(Snapshot{Status: Aprobado, EntregaFiles: 1}, false, true)
	assert.ErrorIs(t, err, ErrApprovedFinal)
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(ActorDirector, "21EBH0088T", "21EBH0088T"))
	assert.True(t, errors.Is(Authorize(ActorDirector, "21EBH0088T", "21EBH0682T"), ErrNotOwner))
	assert.NoError(t, Authorize(ActorATP, "", "21EBH0682T"))
}

// Upload, approve, then a second director upload is rejected.
func TestScenarioUploadApproveLock(t *testing.T) {
	cur := Snapshot{Status: NoEntregado}

	out, err := AfterUpload(cur)
	require.NoError(t, err)
	assert.Equal(t, Pendiente, out.Status)
	assert.True(t, out.StampUpload)
	cur = Snapshot{Status: out.Status, EntregaFiles: 1}

	out, err = Review(cur, Aprobado)
	require.NoError(t, err)
	cur.Status = out.Status

	_, err = AfterUpload(cur)
	assert.ErrorIs(t, err, ErrLocked)
	assert.ErrorIs(t, CanRemoveFile(cur), ErrLocked)
}

func TestSlots(t *testing.T) {
	assert.Equal(t, []string{""}, Slots(1, nil, nil))
	assert.Equal(t, []string{"Registro", "Evidencias"}, Slots(2, []string{"Registro", "Evidencias"}, nil))
	assert.Equal(t, []string{"Archivo 1", "Archivo 2", "Archivo 3"}, Slots(3, nil, nil))

	two := 2
	assert.Equal(t, []string{"Archivo 1", "Archivo 2"}, Slots(1, nil, &two))

	one := 1
	assert.Equal(t, []string{""}, Slots(2, []string{"Registro", "Evidencias"}, &one))
}

func TestCheckSlot(t *testing.T) {
	assert.NoError(t, CheckSlot([]string{""}, "anything"))
	assert.NoError(t, CheckSlot([]string{"Registro", "Evidencias"}, "Evidencias"))
	assert.ErrorIs(t, CheckSlot([]string{"Registro", "Evidencias"}, "Fotos"), ErrUnknownSlot)
}

func TestMissingSlots(t *testing.T) {
	assert.Equal(t, []string{""}, MissingSlots([]string{""}, nil))
	assert.Nil(t, MissingSlots([]string{""}, []string{""}))
	assert.Equal(t, []string{"Evidencias"}, MissingSlots([]string{"Registro", "Evidencias"}, []string{"Registro"}))
	assert.Empty(t, MissingSlots([]string{"Registro", "Evidencias"}, []string{"Evidencias", "Registro"}))
}
