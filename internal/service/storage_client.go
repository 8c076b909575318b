package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// StorageClient 对象存储网关客户端（S3 兼容 path-style HTTP API）
// 用于 floor plan 图片存储和 storage setup 管理端点
type StorageClient struct {
	httpClient *resty.Client
	bucket     string
	logger     *zap.Logger
}

// NewStorageClient 创建对象存储客户端
func NewStorageClient(endpoint, bucket, accessKey, secretKey string, logger *zap.Logger) *StorageClient {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(30 * time.Second). // 图片上传可能较慢
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	if accessKey != "" {
		client.SetHeader("X-Access-Key", accessKey)
		client.SetHeader("X-Secret-Key", secretKey)
	}

	return &StorageClient{
		httpClient: client,
		bucket:     bucket,
		logger:     logger,
	}
}

// Bucket 返回配置的 bucket 名称
func (c *StorageClient) Bucket() string {
	return c.bucket
}

// EnsureBucket 创建 bucket；已存在（409）视为成功，保证端点幂等
func (c *StorageClient) EnsureBucket() error {
	resp, err := c.httpClient.R().Put("/" + c.bucket)
	if err != nil {
		return fmt.Errorf("storage request failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		c.logger.Info("storage bucket created", zap.String("bucket", c.bucket))
		return nil
	case http.StatusConflict:
		// 已存在
		c.logger.Debug("storage bucket already exists", zap.String("bucket", c.bucket))
		return nil
	default:
		return fmt.Errorf("storage bucket setup failed: status=%d body=%s",
			resp.StatusCode(), resp.String())
	}
}

// PutObject 上传对象（floor plan 图片等）
func (c *StorageClient) PutObject(key string, contentType string, body []byte) error {
	if key == "" {
		return fmt.Errorf("object key is required")
	}

	resp, err := c.httpClient.R().
		SetHeader("Content-Type", contentType).
		SetBody(body).
		Put(fmt.Sprintf("/%s/%s", c.bucket, key))
	if err != nil {
		return fmt.Errorf("storage request failed: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("storage put failed: key=%s status=%d", key, resp.StatusCode())
	}

	c.logger.Info("object stored",
		zap.String("bucket", c.bucket),
		zap.String("key", key),
		zap.Int("size", len(body)),
	)
	return nil
}

// ObjectURL 返回对象的访问 URL（path-style）
func (c *StorageClient) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.httpClient.BaseURL, c.bucket, key)
}
