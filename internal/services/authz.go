package services

// Authored is anything with a single owning user.
type Authored interface {
	OwnerID() uint
}

// CanModify reports whether actorID may update or delete entity: only its author can.
func CanModify(actorID uint, entity Authored) bool {
	return entity != nil && actorID != 0 && entity.OwnerID() == actorID
}
