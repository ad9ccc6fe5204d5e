package model

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStageOrdering(t *testing.T) {
	t.Run("Bundle keys follow staged order", func(t *testing.T) {
		d := NewDraft("draft-1", "user-1")

		d.Stage([]StagedFile{
			{ContentType: "image/png", Data: []byte("a")},
			{ContentType: "image/webp", Data: []byte("b")},
		})
		d.Stage([]StagedFile{
			{ContentType: "image/jpeg", Data: []byte("c")},
		})

		images := d.Images()
		assert.Len(t, images, 3)
		assert.Equal(t, "image1", images[0].Key)
		assert.Equal(t, "image2", images[1].Key)
		assert.Equal(t, "image3", images[2].Key)
		assert.Equal(t, "/drafts/draft-1/images/2", images[1].PreviewURL)
	})

	t.Run("Removal keeps the remaining order", func(t *testing.T) {
		d := NewDraft("draft-1", "user-1")
		d.Stage([]StagedFile{
			{ContentType: "image/png", Data: []byte("a")},
			{ContentType: "image/png", Data: []byte("b")},
			{ContentType: "image/png", Data: []byte("c")},
		})

		d.Unstage(2)

		images := d.Images()
		assert.Len(t, images, 2)
		assert.Equal(t, int64(1), images[0].LocalID)
		assert.Equal(t, int64(3), images[1].LocalID)
	})
}

func TestContentsLineCount(t *testing.T) {
	d := NewDraft("draft-1", "user-1")

	assert.Equal(t, 1, d.ContentsLineCount())

	contents := "첫 줄\n둘째 줄\n\n넷째 줄"
	d.SetFields(nil, &contents)
	assert.Equal(t, 4, d.ContentsLineCount())
}

func TestBeginSubmit(t *testing.T) {
	t.Run("Snapshot carries fields and bundle", func(t *testing.T) {
		d := NewDraft("draft-1", "user-1")
		title, contents := "제목", "내용"
		d.SetFields(&title, &contents)
		d.Stage([]StagedFile{{ContentType: "image/png", Data: []byte("a")}})

		snap, err := d.BeginSubmit()

		assert.NoError(t, err)
		assert.True(t, d.IsSubmitting())
		assert.Equal(t, "제목", snap.Title)
		assert.Len(t, snap.Bundle, 1)
	})

	t.Run("Second begin fails until the first ends", func(t *testing.T) {
		d := NewDraft("draft-1", "user-1")
		title, contents := "제목", "내용"
		d.SetFields(&title, &contents)

		_, err := d.BeginSubmit()
		assert.NoError(t, err)

		_, err = d.BeginSubmit()
		assert.ErrorIs(t, err, ErrSubmitInFlight)

		d.EndSubmit()
		_, err = d.BeginSubmit()
		assert.NoError(t, err)
	})

	t.Run("Validation failure leaves the flag untouched", func(t *testing.T) {
		d := NewDraft("draft-1", "user-1")

		_, err := d.BeginSubmit()

		var fieldErr *FieldError
		assert.ErrorAs(t, err, &fieldErr)
		assert.False(t, d.IsSubmitting())
	})
}

// 并发写字段与读取视图必须无竞争（go test -race 覆盖）
func TestConcurrentAccess(t *testing.T) {
	d := NewDraft("draft-1", "user-1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				title := fmt.Sprintf("제목 %d-%d", n, j)
				contents := fmt.Sprintf("내용 %d\n%d", n, j)
				d.SetFields(&title, &contents)
				d.Stage([]StagedFile{{ContentType: "image/png", Data: []byte("x")}})
			}
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = d.Title()
				_ = d.Contents()
				_ = d.IsSubmitting()
				_ = d.ContentsLineCount()
				_ = d.Images()
				d.ValidateField("title")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, d.ImageCount())
}

func TestExpired(t *testing.T) {
	d := NewDraft("draft-1", "user-1")
	d.MarkIdleSince(time.Now().Add(-2 * time.Hour))

	assert.True(t, d.Expired(time.Hour))

	d.Touch()
	assert.False(t, d.Expired(time.Hour))
}
