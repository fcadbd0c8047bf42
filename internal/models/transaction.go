package models

// Transaction is a completed purchase record against a listing. Immutable
// once created.
type Transaction struct {
	ID         int     `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerEmail string  `gorm:"index;not null" json:"buyer_email"`
	Producer   string  `gorm:"not null" json:"producer"`
	Amount     float64 `gorm:"not null" json:"amount"`
	Cost       float64 `gorm:"not null" json:"cost"`
	Type       string  `gorm:"type:varchar(32)" json:"type"`
}
