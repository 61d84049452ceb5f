package models

import "time"

// Contact request lifecycle. A request moves pending -> approved once;
// approval snapshots the referenced profile's contact fields into the
// request so later profile edits do not rewrite history.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
)

type ContactRequest struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	BiodataID int64  `json:"biodataId" gorm:"index;not null"`
	Email     string `json:"email" gorm:"size:255;index;not null"` // requester
	Name      string `json:"name" gorm:"size:255"`
	Status    string `json:"status" gorm:"size:30;not null;default:'pending'"`
	// Snapshot fields, empty until approval.
	MobileNumber string    `json:"mobileNumber" gorm:"size:40"`
	ContactEmail string    `json:"contactEmail" gorm:"size:255"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (ContactRequest) TableName() string { return "contact_requests" }
