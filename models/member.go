package models

import "time"

// Member is one entry in the congregation directory. Directory records
// are plain data-entry rows; they carry no credentials and are not
// related to Account beyond both being managed through the same API.
type Member struct {
	MemberID  int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	JoinedAt  *time.Time `json:"joined_at,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Member model.
func (m Member) TableName() string {
	return "members"
}

// MemberUpdate carries the optional fields of a partial member update.
// Nil pointers mean "leave unchanged"; the repository builds the UPDATE
// statement from the non-nil fields only.
type MemberUpdate struct {
	MemberID  int64      `json:"id"`
	FirstName *string    `json:"first_name,omitempty"`
	LastName  *string    `json:"last_name,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	JoinedAt  *time.Time `json:"joined_at,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}
