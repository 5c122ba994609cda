package entity

// Article is a wiki article a message can reference. Messages never own articles.
type Article struct {
	BaseEntity
	Title string `json:"title" gorm:"type:varchar(255)"`
	Text  string `json:"text" gorm:"type:TEXT"`
}
