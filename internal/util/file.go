package util

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
)

// ValidateMimeType 深度校验文件 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

// IsWorkbookName 按扩展名判断是否为 Excel 工作簿
func IsWorkbookName(name string) bool {
	return slices.Contains(AllowedWorkbookExtensions, strings.ToLower(filepath.Ext(name)))
}
