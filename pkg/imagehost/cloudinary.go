// Package imagehost 头像图床
package imagehost

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"

	"attendance-leave/backend/config"
)

// CloudinaryUploader 基于 Cloudinary 的图片上传
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader 创建上传器
func NewCloudinaryUploader(cfg *config.CloudinaryConfig) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, errors.Wrap(err, "初始化 Cloudinary 失败")
	}
	cld.Config.URL.Secure = true
	return &CloudinaryUploader{cld: cld, folder: cfg.Folder}, nil
}

// Upload 上传图片并返回 https 地址
// data 可为 data URL（data:image/png;base64,...）或纯 base64 字符串
func (u *CloudinaryUploader) Upload(ctx context.Context, data, publicID string) (string, error) {
	overwrite := true
	res, err := u.cld.Upload.Upload(ctx, data, uploader.UploadParams{
		Folder:    u.folder,
		PublicID:  publicID,
		Overwrite: &overwrite,
	})
	if err != nil {
		return "", errors.Wrap(err, "上传头像失败")
	}
	if res.Error.Message != "" {
		return "", errors.Errorf("上传头像失败: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}
