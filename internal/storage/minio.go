package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"resume-analyzer-go/internal/config"
)

// MinIO 对象存储适配器，保存原始简历文件
type MinIO struct {
	client *minio.Client
	cfg    *config.MinIOConfig
}

// NewMinIO 创建MinIO客户端并确保简历存储桶存在
func NewMinIO(cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{client: client, cfg: cfg}
	if err := m.ensureBucketExists(context.Background(), cfg.ResumeBucket); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MinIO) ensureBucketExists(ctx context.Context, bucketName string) error {
	exists, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶失败 %s: %w", bucketName, err)
	}
	if exists {
		return nil
	}

	err = m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: m.cfg.Location})
	if err != nil {
		return fmt.Errorf("创建存储桶失败 %s: %w", bucketName, err)
	}
	log.Info().Str("bucket", bucketName).Msg("已创建MinIO存储桶")
	return nil
}

// UploadResumeFile 上传原始简历文件，对象名为 resumes/<analysisID><ext>
func (m *MinIO) UploadResumeFile(ctx context.Context, analysisID string, originalFilename string, data []byte) (string, error) {
	ext := strings.ToLower(path.Ext(originalFilename))
	objectName := fmt.Sprintf("resumes/%s%s", analysisID, ext)

	contentType := "application/octet-stream"
	switch ext {
	case ".pdf":
		contentType = "application/pdf"
	case ".docx":
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}

	_, err := m.client.PutObject(ctx, m.cfg.ResumeBucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("上传简历文件失败: %w", err)
	}

	log.Debug().Str("object", objectName).Int("size", len(data)).Msg("简历文件已上传到MinIO")
	return objectName, nil
}

// GetResumeFile 下载原始简历文件内容
func (m *MinIO) GetResumeFile(ctx context.Context, objectName string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.cfg.ResumeBucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("获取简历文件失败 %s: %w", objectName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("读取简历文件失败 %s: %w", objectName, err)
	}
	return data, nil
}

// DeleteFile 删除对象
func (m *MinIO) DeleteFile(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.cfg.ResumeBucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("删除文件失败 %s: %w", objectName, err)
	}
	return nil
}
