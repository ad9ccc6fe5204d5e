package service

import (
	"encoding/json"
	"errors"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/model"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/repository"
)

// ErrNotOwner 非帖子作者
var ErrNotOwner = errors.New("post does not belong to this user")

// PostService 帖子服务接口
// CreatePost/UpdatePost 是草稿提交管道的变更协作方
type PostService interface {
	CreatePost(userID, title, contents, category string, imageURLs []string) (*model.Post, error)
	UpdatePost(id, userID string, title, contents *string, imageURLs []string) (*model.Post, error)
	GetPost(id string) (*model.Post, error)
	GetFeed(page, limit int) ([]model.Post, int64, error)
	DeletePost(id string) error
}

type postService struct {
	repo repository.PostRepository
}

func NewPostService(repo repository.PostRepository) PostService {
	return &postService{repo: repo}
}

func (s *postService) CreatePost(userID, title, contents, category string, imageURLs []string) (*model.Post, error) {
	imageJSON, _ := json.Marshal(imageURLs)

	post := &model.Post{
		UserID:    userID,
		Title:     title,
		Contents:  contents,
		ImageURLs: imageJSON,
	}
	if category != "" {
		post.Category = category
	}

	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost 合并更新：为 nil 的字段保持原值
func (s *postService) UpdatePost(id, userID string, title, contents *string, imageURLs []string) (*model.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrNotOwner
	}

	fields := map[string]interface{}{}
	if title != nil {
		fields["title"] = *title
	}
	if contents != nil {
		fields["contents"] = *contents
	}
	if imageURLs != nil {
		imageJSON, _ := json.Marshal(imageURLs)
		fields["image_urls"] = imageJSON
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(id)
}

func (s *postService) GetPost(id string) (*model.Post, error) {
	return s.repo.GetByID(id)
}

// DeletePost 下架帖子，运营审核用，权限在路由层校验
func (s *postService) DeletePost(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *postService) GetFeed(page, limit int) ([]model.Post, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.GetList(offset, limit)
}
