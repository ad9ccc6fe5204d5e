package model

import (
	userModel "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/user/model"
	baseModel "github.com/rmfpdlxmtidl/alpaca-salon/pkg/model"
)

// Comment 评论模型
// 两级结构：一级评论 Level=1，回复 Level=2 且挂在 RootID 下
type Comment struct {
	baseModel.BaseModel
	PostID   string `gorm:"index" json:"postId"`
	UserID   string `json:"userId"`
	Contents string `json:"contents"`
	ParentID string `json:"parentId,omitempty"` // 直接父评论
	RootID   string `gorm:"index" json:"rootId,omitempty"` // 一级评论ID，用于优化查询
	Level    int    `gorm:"default:1" json:"level"`

	// 关联
	User    *userModel.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies []Comment       `gorm:"-" json:"replies,omitempty"`
}
