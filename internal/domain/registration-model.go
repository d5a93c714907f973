package domain

import "time"

// Registration is one confirmed tournament entry. Rows are only ever created
// by the public submit flow after the validation pipeline accepted the input,
// and only ever removed by the admin bulk delete.
type Registration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	GroupCode string    `gorm:"type:varchar(20);not null;index" json:"group_code"`
	FullName  string    `gorm:"type:varchar(100);not null" json:"full_name"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
}

func (Registration) TableName() string {
	return "registrations"
}
