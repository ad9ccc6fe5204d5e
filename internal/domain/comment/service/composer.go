package service

import (
	"errors"
	"strings"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/domain/comment/model"
	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/notifier"
)

// ErrEmptyContents 评论内容为空
var ErrEmptyContents = errors.New("댓글 내용을 입력해주세요")

// ParentCommentRef 回复目标快照，仅用于标注本次提交和渲染回复上下文
type ParentCommentRef struct {
	ID             string `json:"id"`
	AuthorNickname string `json:"authorNickname"`
	Contents       string `json:"contents"`
}

// Composer 单条评论的编写会话
// 持有内容和可选的回复目标；提交成功后两者都被清空
type Composer struct {
	postID   string
	userID   string
	contents string
	parent   *ParentCommentRef

	service  CommentService
	notifier notifier.Notifier
}

func NewComposer(service CommentService, n notifier.Notifier, postID, userID string) *Composer {
	return &Composer{
		postID:   postID,
		userID:   userID,
		service:  service,
		notifier: n,
	}
}

func (c *Composer) SetContents(contents string) {
	c.contents = contents
}

func (c *Composer) Contents() string {
	return c.contents
}

// SetParent 设置回复目标，不影响已输入的内容
func (c *Composer) SetParent(ref *ParentCommentRef) {
	c.parent = ref
}

// ClearParent 取消回复目标，不影响已输入的内容
func (c *Composer) ClearParent() {
	c.parent = nil
}

func (c *Composer) Parent() *ParentCommentRef {
	return c.parent
}

// Submit 提交评论
// 内容为空时不发起任何调用；失败时保留内容和回复目标以便重试
func (c *Composer) Submit() (*model.Comment, error) {
	if strings.TrimSpace(c.contents) == "" {
		return nil, ErrEmptyContents
	}

	parentID := ""
	if c.parent != nil {
		parentID = c.parent.ID
	}

	comment, err := c.service.AddComment(c.userID, c.postID, c.contents, parentID)
	if err != nil {
		if c.notifier != nil {
			c.notifier.NotifyError(c.userID, err)
		}
		return nil, err
	}

	// 成功后清空内容和回复目标
	c.contents = ""
	c.parent = nil
	if c.notifier != nil {
		c.notifier.NotifySuccess(c.userID, "댓글이 등록되었습니다")
	}

	return comment, nil
}
