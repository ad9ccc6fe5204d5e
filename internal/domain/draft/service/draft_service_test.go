package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/draft/model"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/draft/store"
	postModel "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/model"
	postService "github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/post/service"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/notifier"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/uploader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockPostService is a mock of PostService
type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(userID, title, contents, category string, imageURLs []string) (*postModel.Post, error) {
	args := m.Called(userID, title, contents, category, imageURLs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*postModel.Post), args.Error(1)
}

func (m *MockPostService) UpdatePost(id, userID string, title, contents *string, imageURLs []string) (*postModel.Post, error) {
	args := m.Called(id, userID, title, contents, imageURLs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*postModel.Post), args.Error(1)
}

func (m *MockPostService) GetPost(id string) (*postModel.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*postModel.Post), args.Error(1)
}

func (m *MockPostService) DeletePost(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostService) GetFeed(page, limit int) ([]postModel.Post, int64, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]postModel.Post), args.Get(1).(int64), args.Error(2)
}

// MockUploader is a mock of uploader.Uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadBundle(ctx context.Context, files []uploader.File) ([]string, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockNotifier is a mock of notifier.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifySuccess(accountID, message string) {
	m.Called(accountID, message)
}

func (m *MockNotifier) NotifyError(accountID string, err error) {
	m.Called(accountID, err)
}

func (m *MockNotifier) Notify(n notifier.Notification) {
	m.Called(n)
}

type draftFixture struct {
	store    *store.Store
	posts    *MockPostService
	uploader *MockUploader
	notifier *MockNotifier
	service  DraftService
}

func newDraftFixture(t *testing.T) *draftFixture {
	t.Helper()
	f := &draftFixture{
		store:    store.NewStore(0),
		posts:    new(MockPostService),
		uploader: new(MockUploader),
		notifier: new(MockNotifier),
	}
	f.service = NewDraftService(f.store, f.posts, f.uploader, f.notifier, 10)
	return f
}

func createTestPost(id, userID, title, contents string) *postModel.Post {
	p := &postModel.Post{
		UserID:   userID,
		Title:    title,
		Contents: contents,
	}
	p.ID = id
	return p
}

func setFields(t *testing.T, f *draftFixture, draftID, userID, title, contents string) {
	t.Helper()
	_, err := f.service.SetFields(draftID, userID, &title, &contents, "")
	assert.NoError(t, err)
}

func TestStageImages(t *testing.T) {
	userID := "author-1"

	t.Run("Non-image files are silently skipped", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)

		staged, err := f.service.StageImages(d.ID, userID, []model.StagedFile{
			{ContentType: "image/png", Data: []byte("png-bytes")},
			{ContentType: "text/plain", Data: []byte("not an image")},
			{ContentType: "image/jpeg", Data: []byte("jpeg-bytes")},
		})

		assert.NoError(t, err)
		assert.Len(t, staged, 2)
		assert.Equal(t, int64(1), staged[0].LocalID)
		assert.Equal(t, int64(2), staged[1].LocalID)
		assert.Equal(t, "image1", staged[0].Key)
		assert.Equal(t, "image2", staged[1].Key)
		assert.Equal(t, 2, d.ImageCount())
	})

	t.Run("Empty selection is a no-op", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)

		staged, err := f.service.StageImages(d.ID, userID, nil)

		assert.NoError(t, err)
		assert.Empty(t, staged)
		assert.Equal(t, 0, d.ImageCount())
	})

	t.Run("Local ids are never reused after removal", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)

		f.service.StageImages(d.ID, userID, []model.StagedFile{
			{ContentType: "image/png", Data: []byte("a")},
			{ContentType: "image/png", Data: []byte("b")},
		})
		assert.NoError(t, f.service.UnstageImage(d.ID, userID, 2))

		staged, err := f.service.StageImages(d.ID, userID, []model.StagedFile{
			{ContentType: "image/png", Data: []byte("c")},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(3), staged[0].LocalID)
	})

	t.Run("Unstage is idempotent for unknown ids", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)

		f.service.StageImages(d.ID, userID, []model.StagedFile{
			{ContentType: "image/gif", Data: []byte("gif")},
		})

		assert.NoError(t, f.service.UnstageImage(d.ID, userID, 99))
		assert.NoError(t, f.service.UnstageImage(d.ID, userID, 1))
		assert.NoError(t, f.service.UnstageImage(d.ID, userID, 1))
		assert.Equal(t, 0, d.ImageCount())
	})

	t.Run("Staged image limit is enforced", func(t *testing.T) {
		f := newDraftFixture(t)
		f.service = NewDraftService(f.store, f.posts, f.uploader, f.notifier, 1)
		d, _ := f.service.CreateDraft(userID)

		f.service.StageImages(d.ID, userID, []model.StagedFile{
			{ContentType: "image/png", Data: []byte("a")},
		})
		_, err := f.service.StageImages(d.ID, userID, []model.StagedFile{
			{ContentType: "image/png", Data: []byte("b")},
		})

		assert.ErrorIs(t, err, ErrTooManyImages)
	})

	t.Run("Draft of another user is invisible", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)

		_, err := f.service.StageImages(d.ID, "someone-else", []model.StagedFile{
			{ContentType: "image/png", Data: []byte("a")},
		})

		assert.ErrorIs(t, err, ErrDraftNotFound)
	})
}

func TestSubmitValidation(t *testing.T) {
	userID := "author-1"

	t.Run("Empty title blocks submit with no collaborator calls", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)
		setFields(t, f, d.ID, userID, "   ", "본문 내용")

		result, err := f.service.Submit(context.Background(), d.ID, userID)

		assert.Nil(t, result)
		var fieldErr *model.FieldError
		assert.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "title", fieldErr.Field)
		assert.Equal(t, "제목을 입력해주세요", fieldErr.Message)
		f.uploader.AssertNotCalled(t, "UploadBundle", mock.Anything, mock.Anything)
		f.posts.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Title error wins when both fields are empty", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)

		_, err := f.service.Submit(context.Background(), d.ID, userID)

		var fieldErr *model.FieldError
		assert.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "title", fieldErr.Field)
	})

	t.Run("Empty contents blocks submit after title passes", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)
		setFields(t, f, d.ID, userID, "제목", "\n  \n")

		_, err := f.service.Submit(context.Background(), d.ID, userID)

		var fieldErr *model.FieldError
		assert.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "contents", fieldErr.Field)
		assert.Equal(t, "내용을 입력해주세요", fieldErr.Message)
		f.uploader.AssertNotCalled(t, "UploadBundle", mock.Anything, mock.Anything)
	})

	t.Run("Blur validation reports without blocking the update", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)

		empty := ""
		contents := "본문"
		fieldErr, err := f.service.SetFields(d.ID, userID, &empty, &contents, "title")

		assert.NoError(t, err)
		assert.NotNil(t, fieldErr)
		assert.Equal(t, "제목을 입력해주세요", fieldErr.Message)
		assert.Equal(t, "본문", d.Contents())
	})
}

func TestSubmitCreate(t *testing.T) {
	userID := "author-1"

	t.Run("Upload happens exactly once and strictly before the mutation", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)
		setFields(t, f, d.ID, userID, "산책 후기", "오늘 날씨가 좋았어요")

		f.service.StageImages(d.ID, userID, []model.StagedFile{
			{ContentType: "image/png", Data: []byte("first")},
			{ContentType: "application/pdf", Data: []byte("skipped")},
			{ContentType: "image/jpeg", Data: []byte("second")},
		})

		uploaded := false
		urls := []string{"https://cdn.example.com/1.png", "https://cdn.example.com/2.jpg"}

		f.uploader.On("UploadBundle", mock.Anything, mock.MatchedBy(func(files []uploader.File) bool {
			return len(files) == 2 && files[0].Key == "image1" && files[1].Key == "image3"
		})).Run(func(args mock.Arguments) {
			uploaded = true
		}).Return(urls, nil).Once()

		f.posts.On("CreatePost", userID, "산책 후기", "오늘 날씨가 좋았어요", "", urls).
			Run(func(args mock.Arguments) {
				assert.True(t, uploaded, "mutation must not start before the upload finished")
			}).
			Return(createTestPost("post-1", userID, "산책 후기", "오늘 날씨가 좋았어요"), nil).Once()
		f.notifier.On("NotifySuccess", userID, "게시물이 등록되었습니다").Return()

		result, err := f.service.Submit(context.Background(), d.ID, userID)

		assert.NoError(t, err)
		assert.Equal(t, "post-1", result.PostID)
		assert.Equal(t, "/post/post-1", result.Redirect)
		f.uploader.AssertExpectations(t)
		f.posts.AssertExpectations(t)
		f.notifier.AssertExpectations(t)

		// 会话已随成功提交丢弃
		_, ok := f.store.Get(d.ID)
		assert.False(t, ok)
	})

	t.Run("No staged images skips the uploader and sends empty urls", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)
		setFields(t, f, d.ID, userID, "글만 있는 게시물", "이미지 없이 올려요")

		f.posts.On("CreatePost", userID, "글만 있는 게시물", "이미지 없이 올려요", "", []string{}).
			Return(createTestPost("post-2", userID, "글만 있는 게시물", "이미지 없이 올려요"), nil).Once()
		f.notifier.On("NotifySuccess", userID, mock.Anything).Return()

		result, err := f.service.Submit(context.Background(), d.ID, userID)

		assert.NoError(t, err)
		assert.Equal(t, "post-2", result.PostID)
		f.uploader.AssertNotCalled(t, "UploadBundle", mock.Anything, mock.Anything)
		f.posts.AssertExpectations(t)
	})

	t.Run("Upload failure aborts before the mutation and keeps all state", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)
		setFields(t, f, d.ID, userID, "제목", "내용")
		f.service.StageImages(d.ID, userID, []model.StagedFile{
			{ContentType: "image/png", Data: []byte("payload")},
		})

		bang := errors.New("oss: connection reset")
		f.uploader.On("UploadBundle", mock.Anything, mock.Anything).Return(nil, bang).Once()
		f.notifier.On("NotifyError", userID, mock.Anything).Return()

		result, err := f.service.Submit(context.Background(), d.ID, userID)

		assert.Nil(t, result)
		var uploadErr *UploadError
		assert.ErrorAs(t, err, &uploadErr)
		assert.ErrorIs(t, err, bang)
		f.posts.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		// 字段和暂存图片原样保留，可直接重试
		assert.Equal(t, "제목", d.Title())
		assert.Equal(t, 1, d.ImageCount())
		assert.False(t, d.IsSubmitting())
	})

	t.Run("Mutation failure keeps the draft for manual retry", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)
		setFields(t, f, d.ID, userID, "제목", "내용")

		bang := errors.New("db down")
		f.posts.On("CreatePost", userID, "제목", "내용", "", []string{}).Return(nil, bang).Once()
		f.notifier.On("NotifyError", userID, bang).Return()

		_, err := f.service.Submit(context.Background(), d.ID, userID)

		assert.ErrorIs(t, err, bang)
		assert.False(t, d.IsSubmitting())
		_, ok := f.store.Get(d.ID)
		assert.True(t, ok)

		// 重试成功
		f.posts.On("CreatePost", userID, "제목", "내용", "", []string{}).
			Return(createTestPost("post-3", userID, "제목", "내용"), nil).Once()
		f.notifier.On("NotifySuccess", userID, mock.Anything).Return()

		result, err := f.service.Submit(context.Background(), d.ID, userID)

		assert.NoError(t, err)
		assert.Equal(t, "post-3", result.PostID)
		f.posts.AssertExpectations(t)
	})

	t.Run("In-flight submit is rejected without a second mutation", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)
		setFields(t, f, d.ID, userID, "제목", "내용")

		_, err := d.BeginSubmit()
		assert.NoError(t, err)

		result, err := f.service.Submit(context.Background(), d.ID, userID)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, model.ErrSubmitInFlight)
		f.uploader.AssertNotCalled(t, "UploadBundle", mock.Anything, mock.Anything)
		f.posts.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSubmitUpdate(t *testing.T) {
	userID := "author-1"
	postID := "post-1"

	newUpdateDraft := func(t *testing.T, f *draftFixture) *model.Draft {
		t.Helper()
		source := createTestPost(postID, userID, "원래 제목", "원래 내용")
		source.ImageURLs = []byte(`["https://cdn.example.com/old.png"]`)
		f.posts.On("GetPost", postID).Return(source, nil).Once()

		d, err := f.service.CreateUpdateDraft(userID, postID)
		assert.NoError(t, err)
		return d
	}

	t.Run("Update draft is initialized from the fetched post", func(t *testing.T) {
		f := newDraftFixture(t)
		d := newUpdateDraft(t, f)

		assert.Equal(t, postID, d.PostID)
		assert.Equal(t, "원래 제목", d.Title())
		assert.Equal(t, "원래 내용", d.Contents())
		assert.Equal(t, []string{"https://cdn.example.com/old.png"}, d.ExistingImageURLs)
	})

	t.Run("Fetch failure means the draft is never created", func(t *testing.T) {
		f := newDraftFixture(t)
		f.posts.On("GetPost", "missing").Return(nil, gorm.ErrRecordNotFound).Once()

		d, err := f.service.CreateUpdateDraft(userID, "missing")

		assert.Nil(t, d)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.Equal(t, 0, f.store.Len())
	})

	t.Run("Another user's post cannot be drafted for update", func(t *testing.T) {
		f := newDraftFixture(t)
		source := createTestPost(postID, "other-user", "남의 글", "내용")
		f.posts.On("GetPost", postID).Return(source, nil).Once()

		_, err := f.service.CreateUpdateDraft(userID, postID)

		assert.ErrorIs(t, err, postService.ErrNotOwner)
	})

	t.Run("Submit without re-staged images keeps existing urls", func(t *testing.T) {
		f := newDraftFixture(t)
		d := newUpdateDraft(t, f)
		setFields(t, f, d.ID, userID, "고친 제목", "고친 내용")

		f.posts.On("UpdatePost", postID, userID, mock.MatchedBy(func(s *string) bool { return *s == "고친 제목" }),
			mock.MatchedBy(func(s *string) bool { return *s == "고친 내용" }), []string(nil)).
			Return(createTestPost(postID, userID, "고친 제목", "고친 내용"), nil).Once()
		f.notifier.On("NotifySuccess", userID, "게시물이 수정되었습니다").Return()

		result, err := f.service.Submit(context.Background(), d.ID, userID)

		assert.NoError(t, err)
		assert.Equal(t, postID, result.PostID)
		assert.Equal(t, "back", result.Redirect)
		f.uploader.AssertNotCalled(t, "UploadBundle", mock.Anything, mock.Anything)
		f.posts.AssertExpectations(t)
	})

	t.Run("Submit with re-staged images replaces the image urls", func(t *testing.T) {
		f := newDraftFixture(t)
		d := newUpdateDraft(t, f)
		f.service.StageImages(d.ID, userID, []model.StagedFile{
			{ContentType: "image/png", Data: []byte("new")},
		})

		urls := []string{"https://cdn.example.com/new.png"}
		f.uploader.On("UploadBundle", mock.Anything, mock.Anything).Return(urls, nil).Once()
		f.posts.On("UpdatePost", postID, userID, mock.Anything, mock.Anything, urls).
			Return(createTestPost(postID, userID, "원래 제목", "원래 내용"), nil).Once()
		f.notifier.On("NotifySuccess", userID, mock.Anything).Return()

		result, err := f.service.Submit(context.Background(), d.ID, userID)

		assert.NoError(t, err)
		assert.Equal(t, "back", result.Redirect)
		f.uploader.AssertExpectations(t)
		f.posts.AssertExpectations(t)
	})
}

func TestUploaderNotConfigured(t *testing.T) {
	userID := "author-1"

	newFixture := func(t *testing.T) *draftFixture {
		t.Helper()
		f := &draftFixture{
			store:    store.NewStore(0),
			posts:    new(MockPostService),
			notifier: new(MockNotifier),
		}
		f.service = NewDraftService(f.store, f.posts, nil, f.notifier, 10)
		return f
	}

	t.Run("Staging is rejected up front", func(t *testing.T) {
		f := newFixture(t)
		d, _ := f.service.CreateDraft(userID)

		_, err := f.service.StageImages(d.ID, userID, []model.StagedFile{
			{ContentType: "image/png", Data: []byte("a")},
		})

		assert.ErrorIs(t, err, ErrUploadsDisabled)
		assert.Equal(t, 0, d.ImageCount())
	})

	t.Run("Submit with a staged bundle fails cleanly and stays retryable", func(t *testing.T) {
		f := newFixture(t)
		d, _ := f.service.CreateDraft(userID)
		setFields(t, f, d.ID, userID, "제목", "내용")
		d.Stage([]model.StagedFile{{ContentType: "image/png", Data: []byte("a")}})

		f.notifier.On("NotifyError", userID, ErrUploadsDisabled).Return()

		_, err := f.service.Submit(context.Background(), d.ID, userID)

		assert.ErrorIs(t, err, ErrUploadsDisabled)
		f.posts.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		// 提交标志已释放，再次提交得到同样的配置错误而不是提交中
		assert.False(t, d.IsSubmitting())
		_, err = f.service.Submit(context.Background(), d.ID, userID)
		assert.ErrorIs(t, err, ErrUploadsDisabled)
		assert.Equal(t, 1, d.ImageCount())
	})

	t.Run("Text-only posts still go through", func(t *testing.T) {
		f := newFixture(t)
		d, _ := f.service.CreateDraft(userID)
		setFields(t, f, d.ID, userID, "글만 있는 게시물", "내용")

		f.posts.On("CreatePost", userID, "글만 있는 게시물", "내용", "", []string{}).
			Return(createTestPost("post-9", userID, "글만 있는 게시물", "내용"), nil).Once()
		f.notifier.On("NotifySuccess", userID, mock.Anything).Return()

		result, err := f.service.Submit(context.Background(), d.ID, userID)

		assert.NoError(t, err)
		assert.Equal(t, "post-9", result.PostID)
		f.posts.AssertExpectations(t)
	})
}

func TestSubmitFlagRelease(t *testing.T) {
	userID := "author-1"

	t.Run("Flag is released even when a collaborator panics", func(t *testing.T) {
		f := newDraftFixture(t)
		d, _ := f.service.CreateDraft(userID)
		setFields(t, f, d.ID, userID, "제목", "내용")
		f.service.StageImages(d.ID, userID, []model.StagedFile{
			{ContentType: "image/png", Data: []byte("a")},
		})

		f.uploader.On("UploadBundle", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { panic("oss client bug") }).
			Return(nil, nil).Once()

		assert.Panics(t, func() {
			f.service.Submit(context.Background(), d.ID, userID)
		})

		// 会话没有被卡死在提交中，原样重试可以成功
		assert.False(t, d.IsSubmitting())
		assert.Equal(t, 1, d.ImageCount())

		urls := []string{"https://cdn.example.com/1.png"}
		f.uploader.On("UploadBundle", mock.Anything, mock.Anything).Return(urls, nil).Once()
		f.posts.On("CreatePost", userID, "제목", "내용", "", urls).
			Return(createTestPost("post-10", userID, "제목", "내용"), nil).Once()
		f.notifier.On("NotifySuccess", userID, mock.Anything).Return()

		result, err := f.service.Submit(context.Background(), d.ID, userID)

		assert.NoError(t, err)
		assert.Equal(t, "post-10", result.PostID)
		f.posts.AssertExpectations(t)
	})
}
