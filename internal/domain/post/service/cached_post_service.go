package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/model"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/cache"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/logger"

	"go.uber.org/zap"
)

// CachedPostService 带缓存的帖子服务
// 详情和首页分页结果走 Redis，写操作后失效
type CachedPostService struct {
	inner PostService
	cache cache.CacheService
}

func NewCachedPostService(inner PostService, cache cache.CacheService) PostService {
	return &CachedPostService{inner: inner, cache: cache}
}

// 缓存键常量
const (
	PostCacheKeyPrefix = "post:"
	FeedCacheKeyPrefix = "feed:"
	PostCacheTTL       = time.Hour
	FeedCacheTTL       = time.Minute * 5
)

// warn 缓存故障只记日志，不影响业务
func warn(msg string, fields ...zap.Field) {
	if logger.Log != nil {
		logger.Log.Warn(msg, fields...)
	}
}

func (s *CachedPostService) postKey(id string) string {
	return PostCacheKeyPrefix + id
}

func (s *CachedPostService) feedKey(page, limit int) string {
	return fmt.Sprintf("%s%d:%d", FeedCacheKeyPrefix, page, limit)
}

// invalidate 清除帖子与所有首页分页缓存
func (s *CachedPostService) invalidate(ctx context.Context, postID string) {
	if err := s.cache.Delete(ctx, s.postKey(postID)); err != nil {
		warn("failed to invalidate post cache", zap.String("postId", postID), zap.Error(err))
	}
	if err := s.cache.InvalidatePattern(ctx, FeedCacheKeyPrefix+"*"); err != nil {
		warn("failed to invalidate feed cache", zap.Error(err))
	}
}

func (s *CachedPostService) CreatePost(userID, title, contents, category string, imageURLs []string) (*model.Post, error) {
	post, err := s.inner.CreatePost(userID, title, contents, category, imageURLs)
	if err != nil {
		return nil, err
	}
	s.invalidate(context.Background(), post.ID)
	return post, nil
}

func (s *CachedPostService) UpdatePost(id, userID string, title, contents *string, imageURLs []string) (*model.Post, error) {
	post, err := s.inner.UpdatePost(id, userID, title, contents, imageURLs)
	if err != nil {
		return nil, err
	}
	s.invalidate(context.Background(), id)
	return post, nil
}

func (s *CachedPostService) DeletePost(id string) error {
	if err := s.inner.DeletePost(id); err != nil {
		return err
	}
	s.invalidate(context.Background(), id)
	return nil
}

func (s *CachedPostService) GetPost(id string) (*model.Post, error) {
	ctx := context.Background()

	var post model.Post
	if err := s.cache.Get(ctx, s.postKey(id), &post); err == nil {
		return &post, nil
	}

	// 缓存未命中，从数据库获取
	result, err := s.inner.GetPost(id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, s.postKey(id), result, PostCacheTTL); err != nil {
		warn("failed to cache post", zap.String("postId", id), zap.Error(err))
	}

	return result, nil
}

func (s *CachedPostService) GetFeed(page, limit int) ([]model.Post, int64, error) {
	ctx := context.Background()
	key := s.feedKey(page, limit)

	var cached struct {
		Posts []model.Post `json:"posts"`
		Total int64        `json:"total"`
	}
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached.Posts, cached.Total, nil
	}

	posts, total, err := s.inner.GetFeed(page, limit)
	if err != nil {
		return nil, 0, err
	}

	cached.Posts = posts
	cached.Total = total
	if err := s.cache.Set(ctx, key, cached, FeedCacheTTL); err != nil {
		warn("failed to cache feed page", zap.Error(err))
	}

	return posts, total, nil
}
