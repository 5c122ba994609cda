package entity

type User struct {
	BaseEntity
	FirstName string `json:"firstName" gorm:"type:varchar(255);not null"`
	LastName  string `json:"lastName" gorm:"type:varchar(255);not null"`
	Email     string `json:"email" gorm:"type:varchar(255);uniqueIndex"`
	Avatar    string `json:"avatar,omitempty" gorm:"type:varchar(255)"`
}
