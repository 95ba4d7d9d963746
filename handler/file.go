package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imattdu/converter/cctx"
	"github.com/imattdu/converter/errorx"
	"github.com/imattdu/converter/logx"
	"github.com/imattdu/converter/retryx"
	"github.com/imattdu/converter/storage"
)

// ConvertFunc 把输入转换为目标格式，返回内容和 Content-Type
type ConvertFunc func(in []byte) ([]byte, string, error)

// Formats 内置目标格式
var Formats = map[string]ConvertFunc{
	"txt": func(in []byte) ([]byte, string, error) {
		return in, "text/plain; charset=utf-8", nil
	},
	"base64": func(in []byte) ([]byte, string, error) {
		out := make([]byte, base64.StdEncoding.EncodedLen(len(in)))
		base64.StdEncoding.Encode(out, in)
		return out, "text/plain; charset=utf-8", nil
	},
}

type FileHandler struct {
	source     storage.Source
	executor   *retryx.Executor
	maxRetries int
	formats    map[string]ConvertFunc
	logger     logx.Logger
}

func NewFileHandler(source storage.Source, executor *retryx.Executor, maxRetries int, logger logx.Logger) *FileHandler {
	return &FileHandler{
		source:     source,
		executor:   executor,
		maxRetries: maxRetries,
		formats:    Formats,
		logger:     logx.OrNop(logger),
	}
}

// Register 挂载路由
func (h *FileHandler) Register(r gin.IRouter) {
	r.GET("/files/:name", h.Get)
	r.POST("/files/:name/convert", h.Convert)
}

func (h *FileHandler) read(ctx context.Context, name string) ([]byte, error) {
	ctx = cctx.With(ctx, "input", name)
	data, err := retryx.Execute(ctx, h.executor, func(ctx context.Context) ([]byte, error) {
		return h.source.Read(ctx, name)
	}, h.maxRetries)
	if err != nil {
		return nil, err
	}
	h.logger.Debug(ctx, logx.TagFileRead, "input loaded", "size", len(data))
	return data, nil
}

// Get GET /files/:name 原样返回输入文件
func (h *FileHandler) Get(c *gin.Context) {
	data, err := h.read(c.Request.Context(), c.Param("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// Convert POST /files/:name/convert?to=<format>
func (h *FileHandler) Convert(c *gin.Context) {
	to := strings.ToLower(c.DefaultQuery("to", "txt"))
	conv, ok := h.formats[to]
	if !ok {
		_ = c.Error(errorx.Newf(errorx.KindInvalidInputFile, "unsupported target format: %s", to))
		return
	}

	name := c.Param("name")
	data, err := h.read(c.Request.Context(), name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(data) == 0 {
		_ = c.Error(errorx.ConversionFailed("input file is empty: "+name, errorx.WithField("name", name)))
		return
	}

	out, contentType, err := conv(data)
	if err != nil {
		_ = c.Error(errorx.Wrap(err, errorx.KindConversionFailed, errorx.WithField("to", to)))
		return
	}
	c.Data(http.StatusOK, contentType, out)
}
