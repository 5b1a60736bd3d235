package model

import (
	"time"

	"gorm.io/gorm"
)

// Ticker is an entry of the reference list of researchable symbols.
type Ticker struct {
	Symbol    string         `json:"symbol" gorm:"size:16;primaryKey"`
	Name      string         `json:"name" gorm:"size:255;not null;index"`
	Position  int            `json:"-" gorm:"not null;default:0;index"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
