package models

import "time"

// Favourite bookmarks a profile for a user. The (Email, BiodataID) pair is
// unique; adding the same profile twice is rejected, never merged.
type Favourite struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Email             string    `json:"email" gorm:"size:255;not null;index:idx_fav_owner_biodata,unique,priority:1"`
	BiodataID         int64     `json:"biodataId" gorm:"not null;index:idx_fav_owner_biodata,unique,priority:2"`
	Name              string    `json:"name" gorm:"size:255"`
	PermanentDivision string    `json:"permanentDivision" gorm:"size:120"`
	Occupation        string    `json:"occupation" gorm:"size:120"`
	CreatedAt         time.Time `json:"createdAt"`
}

func (Favourite) TableName() string { return "favourites" }
