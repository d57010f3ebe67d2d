package delivery

// Actor identifies who triggers a transition.
type Actor int

const (
	ActorDirector Actor = iota + 1
	ActorATP
)

// Snapshot is what a transition needs to know about a delivery.
type Snapshot struct {
	Status Status
	// EntregaFiles counts attached files of kind ENTREGA.
	EntregaFiles int
}

// Outcome describes the state a transition produces.
type Outcome struct {
	Status Status
	// StampUpload sets uploaded_at to now.
	StampUpload bool
	// ClearUpload resets uploaded_at to NULL.
	ClearUpload bool
	// StampReview sets reviewed_at to now.
	StampReview bool
}

// AfterUpload handles a director attaching a required file. A delivery
// already under review keeps its status when another slot is filled.
func AfterUpload(cur Snapshot) (Outcome, error) {
	switch cur.Status {
	case Aprobado:
		return Outcome{}, ErrLocked
	case EnRevision:
		return Outcome{Status: EnRevision, StampUpload: true}, nil
	}
	return Outcome{Status: Pendiente, StampUpload: true}, nil
}

// CanRemoveFile checks whether an ENTREGA file may be removed at all.
// APROBADO deliveries are locked for every actor.
func CanRemoveFile(cur Snapshot) error {
	if cur.Status == Aprobado {
		return ErrLocked
	}
	return nil
}

// AfterFileRemoval computes the state once an ENTREGA file is gone.
// remaining is the number of ENTREGA files left after the removal.
func AfterFileRemoval(cur Snapshot, remaining int) (Outcome, error) {
	if err := CanRemoveFile(cur); err != nil {
		return Outcome{}, err
	}
	if remaining > 0 {
		return Outcome{Status: cur.Status}, nil
	}
	return Outcome{Status: Initial, ClearUpload: true}, nil
}

// Review validates a direct status change by the ATP. Demoting an APROBADO
// delivery is allowed and is the only way to unlock it.
func Review(cur Snapshot, target Status) (Outcome, error) {
	if !target.Valid() {
		return Outcome{}, ErrUnknownStatus
	}
	if target.ImpliesSubmission() && cur.EntregaFiles == 0 {
		return Outcome{}, ErrNoSubmission
	}
	return Outcome{Status: target, StampReview: true}, nil
}

// IssueCorrection moves a delivery to REQUIERE_CORRECCION.
func IssueCorrection(cur Snapshot, hasText, hasFile bool) (Outcome, error) {
	if !hasText && !hasFile {
		return Outcome{}, ErrEmptyFeedback
	}
	if cur.Status == Aprobado {
		return Outcome{}, ErrApprovedFinal
	}
	return Outcome{Status: RequiereCorreccion, StampReview: true}, nil
}

// Authorize rejects a director acting on another school's delivery.
func Authorize(actor Actor, actorCCT, ownerCCT string) error {
	if actor == ActorDirector && actorCCT != ownerCCT {
		return ErrNotOwner
	}
	return nil
}
