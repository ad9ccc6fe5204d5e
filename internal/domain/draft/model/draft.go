package model

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// StagedImage 已暂存、未上传的图片
// LocalID 在一次草稿会话内严格递增，删除后不复用
type StagedImage struct {
	LocalID     int64  `json:"localId"`
	Key         string `json:"key"` // 上传包内的文件名: image<localId>
	PreviewURL  string `json:"previewUrl"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

// FieldError 表单校验错误，Message 直接面向用户展示
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Message
}

// Draft 一次发帖/改帖的编写会话
// 持有表单字段和暂存图片包；会话随提交成功或过期结束。
// 可变状态都在 mu 之下，并发请求只能经由带锁的方法读写
type Draft struct {
	mu sync.Mutex

	ID     string
	UserID string

	// 非空表示修改已有帖子，放入存储前写入，之后只读
	PostID            string
	ExistingImageURLs []string

	title    string
	contents string

	images      []*StagedImage
	nextImageID int64

	submitting bool

	CreatedAt  time.Time
	lastActive time.Time
}

func NewDraft(id, userID string) *Draft {
	now := time.Now()
	return &Draft{
		ID:          id,
		UserID:      userID,
		nextImageID: 1,
		CreatedAt:   now,
		lastActive:  now,
	}
}

// Touch 刷新活跃时间，供过期回收判断
func (d *Draft) Touch() {
	d.mu.Lock()
	d.lastActive = time.Now()
	d.mu.Unlock()
}

// Expired 会话是否超过 ttl 未活动
func (d *Draft) Expired(ttl time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return time.Since(d.lastActive) > ttl
}

// MarkIdleSince 把活跃时间拨回到过去，仅测试用
func (d *Draft) MarkIdleSince(t time.Time) {
	d.mu.Lock()
	d.lastActive = t
	d.mu.Unlock()
}

// Title 当前标题
func (d *Draft) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

// Contents 当前内容
func (d *Draft) Contents() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.contents
}

// IsSubmitting 是否有提交在途
func (d *Draft) IsSubmitting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submitting
}

// SetFields 更新表单字段，nil 表示不改
func (d *Draft) SetFields(title, contents *string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if title != nil {
		d.title = *title
	}
	if contents != nil {
		d.contents = *contents
	}
	d.lastActive = time.Now()
}

// StagedFile 待暂存的文件
type StagedFile struct {
	ContentType string
	Data        []byte
}

// Stage 暂存一批文件
// 只接受 image/* 类型，其余静默跳过；LocalID 每暂存一张递增一次
func (d *Draft) Stage(files []StagedFile) []*StagedImage {
	d.mu.Lock()
	defer d.mu.Unlock()

	var added []*StagedImage
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			continue
		}

		id := d.nextImageID
		d.nextImageID++

		img := &StagedImage{
			LocalID:     id,
			Key:         fmt.Sprintf("image%d", id),
			PreviewURL:  fmt.Sprintf("/drafts/%s/images/%d", d.ID, id),
			ContentType: f.ContentType,
			Data:        f.Data,
		}
		d.images = append(d.images, img)
		added = append(added, img)
	}

	d.lastActive = time.Now()
	return added
}

// Unstage 按 LocalID 移除暂存图片，不存在时为幂等空操作
func (d *Draft) Unstage(localID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, img := range d.images {
		if img.LocalID == localID {
			d.images = append(d.images[:i], d.images[i+1:]...)
			break
		}
	}
	d.lastActive = time.Now()
}

// Image 按 LocalID 查找暂存图片
func (d *Draft) Image(localID int64) (*StagedImage, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, img := range d.images {
		if img.LocalID == localID {
			return img, true
		}
	}
	return nil, false
}

// Images 暂存图片快照，保持插入顺序
func (d *Draft) Images() []*StagedImage {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*StagedImage, len(d.images))
	copy(out, d.images)
	return out
}

// ImageCount 暂存图片数
func (d *Draft) ImageCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.images)
}

// ContentsLineCount 内容的换行分段数，仅用于前端排版
func (d *Draft) ContentsLineCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.Count(d.contents, "\n") + 1
}

// ValidateField 校验单个字段（失焦校验）
func (d *Draft) ValidateField(field string) *FieldError {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.validateField(field)
}

func (d *Draft) validateField(field string) *FieldError {
	switch field {
	case "title":
		if strings.TrimSpace(d.title) == "" {
			return &FieldError{Field: "title", Message: "제목을 입력해주세요"}
		}
	case "contents":
		if strings.TrimSpace(d.contents) == "" {
			return &FieldError{Field: "contents", Message: "내용을 입력해주세요"}
		}
	}
	return nil
}

// Snapshot 提交管道所需的会话快照
type Snapshot struct {
	PostID            string
	Title             string
	Contents          string
	ExistingImageURLs []string
	Bundle            []*StagedImage
}

// BeginSubmit 进入提交状态
// 已在提交中或校验失败时返回错误且不产生任何副作用；
// 校验顺序：标题在前，只返回第一个错误
func (d *Draft) BeginSubmit() (*Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.submitting {
		return nil, ErrSubmitInFlight
	}
	if err := d.validateField("title"); err != nil {
		return nil, err
	}
	if err := d.validateField("contents"); err != nil {
		return nil, err
	}

	d.submitting = true
	d.lastActive = time.Now()

	bundle := make([]*StagedImage, len(d.images))
	copy(bundle, d.images)

	return &Snapshot{
		PostID:            d.PostID,
		Title:             d.title,
		Contents:          d.contents,
		ExistingImageURLs: d.ExistingImageURLs,
		Bundle:            bundle,
	}, nil
}

// EndSubmit 离开提交状态，所有编写内容保持不变
func (d *Draft) EndSubmit() {
	d.mu.Lock()
	d.submitting = false
	d.mu.Unlock()
}
