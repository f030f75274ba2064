package model

type Customer struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	ContactInfo string `gorm:"type:varchar(255)" json:"contact_info"`
	BaseModel
}
