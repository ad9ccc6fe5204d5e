package model

import (
	"time"

	baseModel "github.com/rmfpdlxmtidl/alpaca-salon/pkg/model"
)

// 用户角色
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// 用户状态
const (
	StatusNormal  = 0
	StatusBanned  = 1
	StatusDeleted = 2
)

// User 用户模型
type User struct {
	baseModel.BaseModel
	Mobile      string     `gorm:"unique" json:"-"` // 手机号不返回给前端
	Nickname    string     `json:"nickname"`
	AvatarURL   string     `json:"avatarUrl"`
	Role        int        `gorm:"default:0" json:"role"`
	Status      int        `gorm:"default:0" json:"-"`
	BannedUntil *time.Time `json:"-"`
}
