package model

import "github.com/shopspring/decimal"

type MenuItem struct {
	ID    uint            `gorm:"primaryKey" json:"id"`
	Name  string          `gorm:"type:varchar(100);not null" json:"name"`
	Price decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	BaseModel
}
