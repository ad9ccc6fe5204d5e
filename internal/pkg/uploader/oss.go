package uploader

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"sync"
	"time"

	"github.com/rmfpdlxmtidl/alpaca-salon/internal/pkg/config"
	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/metrics"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// File 待上传文件
type File struct {
	Key         string // 包内文件名，如 image3
	ContentType string
	Data        []byte
}

// Uploader 图片打包上传接口
// 返回的 URL 顺序与入参顺序一一对应
type Uploader interface {
	UploadBundle(ctx context.Context, files []File) ([]string, error)
}

type AliyunOSSUploader struct {
	bucket *oss.Bucket
	config config.OSSConfig
}

func NewAliyunOSSUploader() (*AliyunOSSUploader, error) {
	cfg := config.GlobalConfig.OSS
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, err
	}

	return &AliyunOSSUploader{
		bucket: bucket,
		config: cfg,
	}, nil
}

// UploadBundle 批量上传，限制并发数为 5，按下标写回保证结果顺序
func (u *AliyunOSSUploader) UploadBundle(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, len(files))

	var wg sync.WaitGroup
	var errOnce sync.Once
	var uploadErr error

	sem := make(chan struct{}, 5)

	for i, file := range files {
		wg.Add(1)
		go func(index int, f File) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			// 已有错误或调用方已放弃，直接返回
			if uploadErr != nil || ctx.Err() != nil {
				return
			}

			url, err := u.putObject(f)
			if err != nil {
				errOnce.Do(func() {
					uploadErr = err
				})
				return
			}

			urls[index] = url
		}(i, file)
	}

	wg.Wait()

	if uploadErr != nil {
		metrics.RecordUpload("error")
		return nil, uploadErr
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordUpload("canceled")
		return nil, err
	}

	metrics.RecordUpload("ok")
	return urls, nil
}

func (u *AliyunOSSUploader) putObject(f File) (string, error) {
	// 对象名: YYYYMMDD/uuid.ext
	ext := ".jpg"
	if exts, err := mime.ExtensionsByType(f.ContentType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	name := fmt.Sprintf("%s/%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)

	err := u.bucket.PutObject(name, bytes.NewReader(f.Data), oss.ContentType(f.ContentType))
	if err != nil {
		return "", err
	}

	// 返回公开访问 URL (bucket 为 public-read 或走 CDN)
	return fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, name), nil
}
