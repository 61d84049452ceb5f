package models

import (
	"time"

	"gorm.io/datatypes"
)

// Premium review states for a biodata record. The two premium fields are
// always written together: a listing is premium only when IsPremium is true
// AND PremiumStatus is PremiumAccepted.
const (
	PremiumNone      = ""
	PremiumRequested = "requested"
	PremiumAccepted  = "accepted"
)

// Biodata is a matrimonial profile. BiodataID is the public sequence id
// assigned at creation; ID is the store primary key. Email identifies at
// most one profile.
type Biodata struct {
	ID                    uint           `json:"id" gorm:"primaryKey"`
	BiodataID             int64          `json:"biodataId" gorm:"uniqueIndex;not null"`
	Email                 string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name                  string         `json:"name" gorm:"size:255"`
	BiodataType           string         `json:"biodataType" gorm:"size:20;index"` // Male / Female
	ProfileImage          string         `json:"profileImage"`
	DateOfBirth           string         `json:"dateOfBirth" gorm:"size:40"`
	Age                   int            `json:"age" gorm:"index"`
	Height                string         `json:"height" gorm:"size:40"`
	Weight                string         `json:"weight" gorm:"size:40"`
	Occupation            string         `json:"occupation" gorm:"size:120"`
	Race                  string         `json:"race" gorm:"size:60"`
	FathersName           string         `json:"fathersName" gorm:"size:255"`
	MothersName           string         `json:"mothersName" gorm:"size:255"`
	PermanentDivision     string         `json:"permanentDivision" gorm:"size:120;index"`
	PresentDivision       string         `json:"presentDivision" gorm:"size:120"`
	ExpectedPartnerAge    string         `json:"expectedPartnerAge" gorm:"size:40"`
	ExpectedPartnerHeight string         `json:"expectedPartnerHeight" gorm:"size:40"`
	ExpectedPartnerWeight string         `json:"expectedPartnerWeight" gorm:"size:40"`
	MobileNumber          string         `json:"mobileNumber" gorm:"size:40"`
	IsPremium             bool           `json:"isPremium" gorm:"not null;default:false"`
	PremiumStatus         string         `json:"premiumStatus" gorm:"size:20;default:''"`
	Extra                 datatypes.JSON `json:"extra,omitempty"` // submitted fields outside the fixed form
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

func (Biodata) TableName() string { return "biodatas" }

// SequenceCounter backs biodata id allocation. The value is advanced with an
// atomic in-transaction increment so two concurrent creations can never
// observe the same id.
type SequenceCounter struct {
	Name  string `gorm:"primaryKey;size:60"`
	Value int64  `gorm:"not null"`
}

func (SequenceCounter) TableName() string { return "sequence_counters" }
