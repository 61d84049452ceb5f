package models

import "time"

// SuccessStory references two profiles by their public biodata ids. The
// references are not checked against the biodatas table.
type SuccessStory struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	SelfBiodataID    int64     `json:"selfBiodataId" gorm:"not null"`
	PartnerBiodataID int64     `json:"partnerBiodataId" gorm:"not null"`
	CoupleImage      string    `json:"coupleImage"`
	Review           string    `json:"review" gorm:"type:text"`
	MarriageDate     string    `json:"marriageDate" gorm:"size:40"`
	Email            string    `json:"email" gorm:"size:255;index"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (SuccessStory) TableName() string { return "success_stories" }
