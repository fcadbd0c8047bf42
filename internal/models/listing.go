package models

// Listing is a producer's offer of energy for sale. Amount is the remaining
// kWh available and is decremented in place by purchases; it never goes
// negative.
type Listing struct {
	ID       int     `gorm:"primaryKey;autoIncrement" json:"id"`
	Producer string  `gorm:"index;not null" json:"producer"`
	Type     string  `gorm:"type:varchar(32);index" json:"type"`
	Amount   float64 `gorm:"not null" json:"amount"`
	Price    float64 `gorm:"not null" json:"price"`
	Location string  `json:"location"`
	Source   string  `gorm:"type:varchar(32);index" json:"source"`
	Duration int     `json:"duration"`
}
