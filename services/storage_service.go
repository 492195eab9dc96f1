package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"portfolio-http-service/config"
	"portfolio-http-service/utils"
)

// objectKeyPrefix 项目图片在存储桶中的键前缀
const objectKeyPrefix = "portfolio_projects"

// StoredObject 上传成功后返回的对象引用
type StoredObject struct {
	URL string `json:"url"`
	Key string `json:"public_id"` // 删除句柄
}

// StorageProvider 定义对象存储后端的行为
type StorageProvider interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// InterfaceStorageService 定义对象存储服务接口
type InterfaceStorageService interface {
	UploadFile(ctx context.Context, filename string, data []byte, contentType string) (*StoredObject, error)
	ReleaseFile(ctx context.Context, key string) error
}

// StorageService 对象存储适配器，为每次调用附加有界超时
type StorageService struct {
	provider StorageProvider
	timeout  time.Duration
}

// NewStorageService 根据配置选择存储后端
func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider

	if cfg.StorageProvider == "s3" {
		s3Config := &aws.Config{
			Credentials:      credentials.NewStaticCredentials(cfg.StorageKeyID, cfg.StorageAppKey, ""),
			Endpoint:         aws.String(cfg.StorageEndpoint),
			Region:           aws.String(cfg.StorageRegion),
			S3ForcePathStyle: aws.Bool(true),
		}
		sess := session.Must(session.NewSession(s3Config))
		provider = &S3Provider{
			api:       s3.New(sess),
			bucket:    cfg.StorageBucket,
			publicURL: cfg.StoragePublicURL,
		}
	} else {
		// 默认使用本地文件系统，方便本地开发
		provider = NewLocalProvider(cfg.StorageLocalDir)
	}

	return &StorageService{
		provider: provider,
		timeout:  cfg.StorageTimeout,
	}
}

// NewStorageServiceWithProvider 使用指定的后端创建存储服务，测试用
func NewStorageServiceWithProvider(provider StorageProvider, cfg *config.Config) *StorageService {
	return &StorageService{
		provider: provider,
		timeout:  cfg.StorageTimeout,
	}
}

// UploadFile 上传文件并返回 {url, 删除句柄}。超时映射为 ErrUpstreamTimeout。
// 超时上下文派生自调用方，请求被中止时上传随之取消。
func (s *StorageService) UploadFile(ctx context.Context, filename string, data []byte, contentType string) (*StoredObject, error) {
	key := utils.NewStorageKey(objectKeyPrefix, filename)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url, err := s.provider.Put(callCtx, key, data, contentType)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, ErrUpstreamTimeout
		}
		return nil, err
	}

	return &StoredObject{URL: url, Key: key}, nil
}

// ReleaseFile 删除之前上传的文件
func (s *StorageService) ReleaseFile(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.provider.Delete(callCtx, key); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return ErrUpstreamTimeout
		}
		return err
	}
	return nil
}

// S3Provider 基于S3兼容接口的存储后端（AWS/B2/MinIO）
type S3Provider struct {
	api       *s3.S3
	bucket    string
	publicURL string
}

// Put 上传对象并返回可公开访问的URL
func (p *S3Provider) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := p.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSuffix(p.publicURL, "/") + "/" + key, nil
}

// Delete 删除对象
func (p *S3Provider) Delete(ctx context.Context, key string) error {
	_, err := p.api.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	return err
}

// LocalProvider 本地文件系统后端，文件通过 /uploads 静态路由对外提供
type LocalProvider struct {
	RootPath string
}

// NewLocalProvider 创建本地存储后端并确保目录存在
func NewLocalProvider(root string) *LocalProvider {
	_ = os.MkdirAll(root, 0755)
	return &LocalProvider{RootPath: root}
}

// Put 将对象写入本地目录
func (p *LocalProvider) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	path := filepath.Join(p.RootPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return "/uploads/" + key, nil
}

// Delete 删除本地对象，文件不存在时不视为错误
func (p *LocalProvider) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(p.RootPath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
