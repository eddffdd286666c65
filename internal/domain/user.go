package domain

// UnknownUser labels the group for tickets whose UserID matches no fetched user.
const UnknownUser = "Unknown User"

// User is an assignee fetched alongside the tickets.
type User struct {
	ID   string
	Name string
}
