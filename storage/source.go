package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/imattdu/converter/errorx"
)

// Source 读取待转换的输入文件
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// ValidateName 只允许单层文件名，拒绝空名和路径穿越
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errorx.InvalidInputFile("file name is empty")
	case name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
		return errorx.InvalidInputFile("invalid file name: "+name, errorx.WithField("name", name))
	}
	return nil
}

// LocalSource 从本地目录读取
type LocalSource struct {
	Dir string
}

func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{Dir: dir}
}

func (s *LocalSource) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, errorx.NotFound(name)
	default:
		return nil, err
	}
}
