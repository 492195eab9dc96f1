package models

// ProjectImage 项目图片，Position为0的图片作为封面图
type ProjectImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID uint   `gorm:"index;not null" json:"-"`
	URL       string `gorm:"type:text;not null" json:"url"`
	PublicID  string `gorm:"type:varchar(191)" json:"public_id"` // 对象存储中的删除句柄
	Position  int    `gorm:"not null;default:0" json:"position"`
}

// Project 作品集项目
type Project struct {
	BaseModel
	Title          string         `gorm:"type:varchar(191);not null" json:"title"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	TechStack      StringList     `gorm:"type:text" json:"tech_stack"`
	Images         []ProjectImage `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"images"`
	LiveLink       string         `gorm:"type:varchar(500)" json:"live_link,omitempty"`
	RepoLink       string         `gorm:"type:varchar(500);not null" json:"repo_link"`
	Features       StringList     `gorm:"type:text" json:"features"`
	DemoVideo      string         `gorm:"type:varchar(500)" json:"demo_video,omitempty"`
	Featured       bool           `gorm:"default:false" json:"featured"`
	FeaturedOnHome bool           `gorm:"default:false" json:"featured_on_home"`
	DisplayOrder   int            `gorm:"default:0" json:"display_order"`
}

// CoverImage 返回封面图（有序图片列表的第一张）
func (p *Project) CoverImage() *ProjectImage {
	if len(p.Images) == 0 {
		return nil
	}
	return &p.Images[0]
}
