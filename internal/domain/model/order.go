package model

import "github.com/shopspring/decimal"

type OrderStatus string

// 訂單建立即為 Placed, 之後不再轉換
const (
	OrderStatusPlaced OrderStatus = "placed"
)

type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TableNumber int             `gorm:"not null" json:"table_number"`
	Items       string          `gorm:"type:text;not null" json:"items"` // 品項名稱以 ", " 串接, 顯示與搜尋用
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'placed'" json:"status"`
	CustomerID  *uint           `gorm:"index" json:"customer_id"`
	Customer    *Customer       `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"customer,omitempty"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	User        *User           `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Lines       []OrderLine     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"lines"`
	BaseModel
}

// OrderLine 下單當下的品項與價格快照
type OrderLine struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"not null;index" json:"order_id"`
	MenuItemID uint            `gorm:"not null" json:"menu_item_id"`
	Name       string          `gorm:"type:varchar(100);not null" json:"name"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity   int             `gorm:"not null;default:1" json:"quantity"`
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
