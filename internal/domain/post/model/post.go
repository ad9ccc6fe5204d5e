package model

import (
	"encoding/json"

	userModel "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/user/model"
	baseModel "github.com/rmfpdlxmtidl/alpaca-salon/pkg/model"
)

// Post 帖子模型
type Post struct {
	baseModel.BaseModel
	UserID    string          `gorm:"index" json:"userId"`
	Title     string          `json:"title"`
	Contents  string          `json:"contents"`
	ImageURLs json.RawMessage `gorm:"type:jsonb" json:"imageUrls"` // 图片 URL 数组，顺序即展示顺序
	Category  string          `gorm:"default:'자유'" json:"category"`

	// 关联
	User *userModel.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// ImageURLList 反序列化图片 URL 数组
func (p *Post) ImageURLList() []string {
	var urls []string
	if len(p.ImageURLs) > 0 {
		_ = json.Unmarshal(p.ImageURLs, &urls)
	}
	return urls
}
