package models

// Message 访客通过联系表单提交的消息，创建后内容不可修改
type Message struct {
	BaseModel
	SenderName     string `gorm:"type:varchar(100);not null" json:"sender_name"`
	SenderEmail    string `gorm:"type:varchar(191);not null" json:"sender_email"`
	Subject        string `gorm:"type:varchar(191);default:'General Inquiry'" json:"subject"`
	Body           string `gorm:"type:text;not null" json:"message"`
	RelatedProject string `gorm:"type:varchar(191);default:'General'" json:"related_project"`
	IsRead         bool   `gorm:"default:false" json:"is_read"`
}
