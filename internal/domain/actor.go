package domain

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID        int32
	Username      string
	IsBankManager bool
}
