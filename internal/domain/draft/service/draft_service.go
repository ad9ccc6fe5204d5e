package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/draft/model"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/draft/store"
	postService "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/service"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/notifier"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/uploader"

	"github.com/google/uuid"
)

var (
	// ErrDraftNotFound 会话不存在、已过期或不属于请求者
	ErrDraftNotFound = errors.New("draft not found")
	// ErrTooManyImages 超出单个草稿的暂存图片上限
	ErrTooManyImages = errors.New("too many staged images")
	// ErrUploadsDisabled 上传协作方未配置，图片相关操作不可用
	ErrUploadsDisabled = errors.New("image uploads are not configured")
)

// UploadError 上传协作方失败，提交在变更前中止
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("image upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// SubmitResult 提交成功的结果
type SubmitResult struct {
	PostID   string `json:"postId"`
	Redirect string `json:"redirect"` // 新帖跳详情页，改帖返回上一页
}

// DraftService 编写会话服务
type DraftService interface {
	CreateDraft(userID string) (*model.Draft, error)
	CreateUpdateDraft(userID, postID string) (*model.Draft, error)
	GetDraft(draftID, userID string) (*model.Draft, error)
	SetFields(draftID, userID string, title, contents *string, blurred string) (*model.FieldError, error)
	StageImages(draftID, userID string, files []model.StagedFile) ([]*model.StagedImage, error)
	UnstageImage(draftID, userID string, localID int64) error
	GetStagedImage(draftID, userID string, localID int64) (*model.StagedImage, error)
	Submit(ctx context.Context, draftID, userID string) (*SubmitResult, error)
}

type draftService struct {
	store     *store.Store
	posts     postService.PostService
	uploader  uploader.Uploader
	notifier  notifier.Notifier
	maxImages int
}

func NewDraftService(s *store.Store, posts postService.PostService, up uploader.Uploader, n notifier.Notifier, maxImages int) DraftService {
	return &draftService{
		store:     s,
		posts:     posts,
		uploader:  up,
		notifier:  n,
		maxImages: maxImages,
	}
}

// CreateDraft 新建发帖会话
func (s *draftService) CreateDraft(userID string) (*model.Draft, error) {
	d := model.NewDraft(uuid.New().String(), userID)
	s.store.Put(d)
	return d, nil
}

// CreateUpdateDraft 基于已有帖子新建改帖会话
// 帖子加载失败或不属于请求者时会话不会被创建，
// 由此保证改帖会话存在即其初始值已就绪
func (s *draftService) CreateUpdateDraft(userID, postID string) (*model.Draft, error) {
	post, err := s.posts.GetPost(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, postService.ErrNotOwner
	}

	d := model.NewDraft(uuid.New().String(), userID)
	d.PostID = postID
	d.ExistingImageURLs = post.ImageURLList()
	d.SetFields(&post.Title, &post.Contents)

	s.store.Put(d)
	return d, nil
}

// get 取会话并校验归属
func (s *draftService) get(draftID, userID string) (*model.Draft, error) {
	d, ok := s.store.Get(draftID)
	if !ok || d.UserID != userID {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

func (s *draftService) GetDraft(draftID, userID string) (*model.Draft, error) {
	return s.get(draftID, userID)
}

// SetFields 更新表单字段；blurred 指定失焦字段时附带该字段的校验结果
func (s *draftService) SetFields(draftID, userID string, title, contents *string, blurred string) (*model.FieldError, error) {
	d, err := s.get(draftID, userID)
	if err != nil {
		return nil, err
	}

	d.SetFields(title, contents)

	if blurred != "" {
		return d.ValidateField(blurred), nil
	}
	return nil, nil
}

// StageImages 暂存一批文件，非图片类型被静默跳过
// 上传协作方未配置时拒绝暂存，避免积累无法提交的图片
func (s *draftService) StageImages(draftID, userID string, files []model.StagedFile) ([]*model.StagedImage, error) {
	d, err := s.get(draftID, userID)
	if err != nil {
		return nil, err
	}

	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	if d.ImageCount()+len(files) > s.maxImages {
		return nil, ErrTooManyImages
	}

	return d.Stage(files), nil
}

func (s *draftService) UnstageImage(draftID, userID string, localID int64) error {
	d, err := s.get(draftID, userID)
	if err != nil {
		return err
	}

	d.Unstage(localID)
	return nil
}

func (s *draftService) GetStagedImage(draftID, userID string, localID int64) (*model.StagedImage, error) {
	d, err := s.get(draftID, userID)
	if err != nil {
		return nil, err
	}

	img, ok := d.Image(localID)
	if !ok {
		return nil, ErrDraftNotFound
	}
	return img, nil
}

// Submit 提交管道
// 顺序保证：图片上传完成（或无图跳过）后变更才开始，两者绝不重叠；
// 任何失败都保留全部编写状态，用户可直接重试
func (s *draftService) Submit(ctx context.Context, draftID, userID string) (*SubmitResult, error) {
	d, err := s.get(draftID, userID)
	if err != nil {
		return nil, err
	}

	// 1. 重复提交与校验拦截，不触发任何协作方调用
	snap, err := d.BeginSubmit()
	if err != nil {
		return nil, err
	}
	// 提交标志必须释放，协作方 panic 也不能把会话卡死在提交中；
	// 成功路径上会话已被丢弃，多释放一次无害
	defer d.EndSubmit()

	// 2. 上传暂存图片包，结果顺序与暂存顺序一致
	var uploadedURLs []string
	if len(snap.Bundle) > 0 {
		if s.uploader == nil {
			s.notifier.NotifyError(userID, ErrUploadsDisabled)
			return nil, ErrUploadsDisabled
		}

		files := make([]uploader.File, len(snap.Bundle))
		for i, img := range snap.Bundle {
			files[i] = uploader.File{
				Key:         img.Key,
				ContentType: img.ContentType,
				Data:        img.Data,
			}
		}

		uploadedURLs, err = s.uploader.UploadBundle(ctx, files)
		if err != nil {
			// 上传失败：变更不会被调用，暂存图片原样保留
			uerr := &UploadError{Err: err}
			s.notifier.NotifyError(userID, uerr)
			return nil, uerr
		}
	}

	// 3. 变更调用
	if snap.PostID == "" {
		imageURLs := uploadedURLs
		if imageURLs == nil {
			imageURLs = []string{}
		}

		post, err := s.posts.CreatePost(userID, snap.Title, snap.Contents, "", imageURLs)
		if err != nil {
			s.notifier.NotifyError(userID, err)
			return nil, err
		}

		s.finish(d, userID, "게시물이 등록되었습니다")
		return &SubmitResult{PostID: post.ID, Redirect: "/post/" + post.ID}, nil
	}

	// 改帖：未重新上传时保留原图，合并更新不清空未设置的字段
	post, err := s.posts.UpdatePost(snap.PostID, userID, &snap.Title, &snap.Contents, uploadedURLs)
	if err != nil {
		s.notifier.NotifyError(userID, err)
		return nil, err
	}

	s.finish(d, userID, "게시물이 수정되었습니다")
	return &SubmitResult{PostID: post.ID, Redirect: "back"}, nil
}

// finish 提交成功：通知并丢弃会话
func (s *draftService) finish(d *model.Draft, userID, message string) {
	s.notifier.NotifySuccess(userID, message)
	s.store.Delete(d.ID)
}
