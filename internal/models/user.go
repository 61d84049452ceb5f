package models

import "time"

// UserAccount is the login-side account record. It is linked to a Biodata
// only by sharing the same email value; nothing enforces that link.
type UserAccount struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name      string    `json:"name" gorm:"size:255"`
	PhotoURL  string    `json:"photoURL"`
	Role      string    `json:"role" gorm:"size:30;not null;default:'user'"` // admin / user, unenforced string
	IsPremium bool      `json:"isPremium" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UserAccount) TableName() string { return "users" }
