package service

import (
	"errors"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/comment/model"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/comment/repository"
	postRepo "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/repository"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/notifier"
)

var (
	ErrParentNotFound = errors.New("parent comment not found")
	ErrParentMismatch = errors.New("parent comment does not belong to this post")
)

type CommentService interface {
	AddComment(userID, postID, contents, parentID string) (*model.Comment, error)
	GetPostComments(postID string) ([]model.Comment, error)
}

type commentService struct {
	repo     repository.CommentRepository
	posts    postRepo.PostRepository
	notifier notifier.Notifier
}

func NewCommentService(repo repository.CommentRepository, posts postRepo.PostRepository, n notifier.Notifier) CommentService {
	return &commentService{repo: repo, posts: posts, notifier: n}
}

func (s *commentService) AddComment(userID, postID, contents, parentID string) (*model.Comment, error) {
	// 帖子必须存在
	post, err := s.posts.GetByID(postID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:   postID,
		UserID:   userID,
		Contents: contents,
		Level:    1, // 默认一级评论
	}

	// 处理回复逻辑
	if parentID != "" {
		parentComment, err := s.repo.GetByID(parentID)
		if err != nil {
			return nil, ErrParentNotFound
		}

		// 验证父评论属于同一个帖子
		if parentComment.PostID != postID {
			return nil, ErrParentMismatch
		}

		comment.ParentID = parentID

		// 确定 RootID 和 Level（最多两层）
		if parentComment.Level == 1 {
			comment.RootID = parentComment.ID
		} else {
			comment.RootID = parentComment.RootID
		}
		comment.Level = 2
	}

	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}

	// 通知帖子作者，自己评论自己不推送
	if s.notifier != nil && post.UserID != userID {
		s.notifier.Notify(notifier.Notification{
			AccountID: post.UserID,
			Title:     post.Title,
			Body:      contents,
			Extras:    map[string]string{"postId": postID, "commentId": comment.ID},
		})
	}

	return comment, nil
}

// GetPostComments 返回评论树：一级评论按时间升序，回复挂在对应一级评论下
func (s *commentService) GetPostComments(postID string) ([]model.Comment, error) {
	comments, err := s.repo.GetByPostID(postID)
	if err != nil {
		return nil, err
	}

	roots := make([]model.Comment, 0, len(comments))
	index := make(map[string]int)

	for _, c := range comments {
		if c.Level == 1 {
			index[c.ID] = len(roots)
			roots = append(roots, c)
		}
	}
	for _, c := range comments {
		if c.Level != 1 {
			if i, ok := index[c.RootID]; ok {
				roots[i].Replies = append(roots[i].Replies, c)
			}
		}
	}

	return roots, nil
}
