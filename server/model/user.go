package model

// User is one account of the dev server. Name is the inventory directory,
// Identity is the identity url and the auth username.
type User struct {
	Name      string
	Identity  string
	FirstName string
	LastName  string
	Password  string
}
