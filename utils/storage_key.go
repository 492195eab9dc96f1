package utils

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// NewStorageKey 为上传文件生成对象存储键，保留原始扩展名
func NewStorageKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(prefix, uuid.NewString()+ext)
}
