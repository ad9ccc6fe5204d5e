package repository

import (
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/model"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(post *model.Post) error
	GetByID(id string) (*model.Post, error)
	GetList(offset, limit int) ([]model.Post, int64, error)
	UpdateFields(id string, fields map[string]interface{}) error
	Delete(id string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) GetByID(id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.Preload("User").Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetList(offset, limit int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	query := r.db.Model(&model.Post{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("User").Order("created_at desc").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// UpdateFields 仅更新给定字段，未给的字段保持不变
func (r *postRepository) UpdateFields(id string, fields map[string]interface{}) error {
	return r.db.Model(&model.Post{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 软删除帖子
func (r *postRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Post{}).Error
}
