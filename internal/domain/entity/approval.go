package entity

import "time"

// Approval records an accept/reject decision on a step. A step has at
// most one approval; it belongs to the step and dies with it.
type Approval struct {
	ID                int64     `json:"id"`
	StepID            int64     `json:"step_id"`
	ResponsibleUserID int64     `json:"responsible_user_id"`
	Approved          bool      `json:"approved"`
	DecidedAt         time.Time `json:"decided_at"`
	Comments          string    `json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ResponsibleUser *User `json:"responsible_user,omitempty"`
}

// StepImage is a photo attached to a step as part of the audit trail.
type StepImage struct {
	ID     int64  `json:"id"`
	StepID int64  `json:"step_id"`
	Path   string `json:"path"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
