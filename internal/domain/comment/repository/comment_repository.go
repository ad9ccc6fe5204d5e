package repository

import (
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/comment/model"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	GetByID(id string) (*model.Comment, error)
	GetByPostID(postID string) ([]model.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) GetByID(id string) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetByPostID 取一个帖子的全部评论，按创建时间升序
func (r *commentRepository) GetByPostID(postID string) ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.Preload("User").Where("post_id = ?", postID).Order("created_at asc").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
