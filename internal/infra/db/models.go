package db

import (
	"time"
)

type alertModel struct {
	ID              string `gorm:"primaryKey"`
	Seq             int    `gorm:"index;not null"`
	OwnerID         string `gorm:"index;not null"`
	Exchange        string `gorm:"not null"`
	Side            string `gorm:"not null"`
	Asset           string `gorm:"not null"`
	Fiat            string `gorm:"not null"`
	TargetPrice     string `gorm:"not null"`
	MinAmount       *string
	PaymentMethod   string `gorm:"not null"`
	Recurring       bool
	Active          bool `gorm:"index"`
	LastTriggeredAt *time.Time
	MatchedPrice    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (alertModel) TableName() string {
	return "alerts"
}
