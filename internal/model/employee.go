package model

// Employee is the identity attached to the current session, as reported by
// the vendor's GraphQL API.
type Employee struct {
	ID       string `json:"id"`
	Typename string `json:"__typename,omitempty"`
}
