package storage

import (
	"context"
	"fmt"
	"strings"

	"portal/internal/config"
)

const (
	// TypeLocal 表示本地文件系统存储。
	TypeLocal = "local"
	// TypeS3 表示 Amazon S3 或兼容的存储后端。
	TypeS3 = "s3"
	// TypeOSS 表示阿里云 OSS 存储。
	TypeOSS = "oss"
	// TypeCOS 表示腾讯云 COS 存储。
	TypeCOS = "cos"
	// TypeR2 表示 Cloudflare R2 存储。
	TypeR2 = "r2"
)

// File categories used by the portal. Category names end up as the first
// path segment of the stored object key.
const (
	CategoryMaterials   = "materials"
	CategorySubmissions = "submissions"
	CategoryAvatars     = "avatars"
)

// SaveOptions 控制存储后端如何持久化文件。
//
// Category 用于在磁盘上组织文件，Extension 提示首选的文件扩展名（不含前导点）。
// 当 Extension 为空时，存储实现应尝试猜测合适的扩展名。
type SaveOptions struct {
	Category  string
	Extension string
	BaseName  string
}

// Storage 是持久化二进制数据并返回存储特定标识符的抽象（例如本地存储的相对路径）。
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// LocalBaseDirProvider 由暴露可通过 HTTP 直接提供服务的本地目录的存储驱动实现。
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage 根据配置实例化存储后端。
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(S3Options{
			Region:          cfg.StorageS3Region,
			Bucket:          cfg.StorageS3Bucket,
			Prefix:          cfg.StorageS3Prefix,
			Endpoint:        cfg.StorageS3Endpoint,
			AccessKeyID:     cfg.StorageS3AccessKeyID,
			SecretAccessKey: cfg.StorageS3SecretAccessKey,
			SessionToken:    cfg.StorageS3SessionToken,
			ForcePathStyle:  cfg.StorageS3ForcePathStyle,
		})
	case TypeOSS:
		return NewOSSStorage(OSSOptions{
			Endpoint:        cfg.StorageOSSEndpoint,
			Bucket:          cfg.StorageOSSBucket,
			Prefix:          cfg.StorageOSSPrefix,
			AccessKeyID:     cfg.StorageOSSAccessKeyID,
			AccessKeySecret: cfg.StorageOSSAccessKeySecret,
		})
	case TypeCOS:
		return NewCOSStorage(COSOptions{
			BucketURL: cfg.StorageCOSBucketURL,
			Prefix:    cfg.StorageCOSPrefix,
			SecretID:  cfg.StorageCOSSecretID,
			SecretKey: cfg.StorageCOSSecretKey,
		})
	case TypeR2:
		return NewR2Storage(R2Options{
			AccountID:       cfg.StorageR2AccountID,
			Endpoint:        cfg.StorageR2Endpoint,
			Region:          cfg.StorageR2Region,
			Bucket:          cfg.StorageR2Bucket,
			Prefix:          cfg.StorageR2Prefix,
			AccessKeyID:     cfg.StorageR2AccessKeyID,
			SecretAccessKey: cfg.StorageR2SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
