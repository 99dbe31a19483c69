package auth

// Actor is the authenticated identity handed to every core operation.
// Passing it explicitly keeps the ownership rules testable without a request.
type Actor struct {
	ID          uint
	IsStaff     bool
	IsSuperuser bool
}

// CanMutate is the single ownership predicate used by every mutation path:
// the owner of the entity, or staff, may change it.
func (a Actor) CanMutate(ownerID uint) bool {
	return a.ID == ownerID || a.IsStaff || a.IsSuperuser
}

// CanReviewReports reports whether the actor may work the moderation queue
func (a Actor) CanReviewReports() bool {
	return a.IsStaff || a.IsSuperuser
}
