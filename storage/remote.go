package storage

import (
	"context"
	"net/http"
	"net/url"

	"github.com/imattdu/converter/errorx"
	"github.com/imattdu/converter/httpclient"
	"github.com/imattdu/converter/logx"
	"github.com/imattdu/converter/tracex"
)

// RemoteSource 通过 HTTP 从文件服务读取，404 映射为 NotFound
type RemoteSource struct {
	client *httpclient.Client
}

// NewRemoteSource opts 追加在默认选项之后
func NewRemoteSource(baseURL string, logger logx.Logger, opts ...httpclient.Option) (*RemoteSource, error) {
	logger = logx.OrNop(logger)
	base := []httpclient.Option{
		httpclient.WithBaseURL(baseURL),
		httpclient.WithStatusDecoder(decodeStatus),
		httpclient.WithBeforeHooks(func(ctx context.Context, req *http.Request) {
			tracex.InjectToHeader(ctx, req.Header)
		}),
		httpclient.WithStatsHook(func(ctx context.Context, s *httpclient.CallStats) {
			if s.Err != "" {
				logger.Warn(ctx, logx.TagHttpFailure, s)
				return
			}
			logger.Info(ctx, logx.TagHttpSuccess, s)
		}),
	}
	c, err := httpclient.New(append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return &RemoteSource{client: c}, nil
}

// decodeStatus 410 Gone 与 404 同样视为文件不存在
func decodeStatus(status int, body []byte) error {
	if status == http.StatusGone {
		return errorx.New(errorx.KindNotFound, errorx.WithMessage(errorx.MsgNotFound))
	}
	return httpclient.DefaultStatusDecoder(status, body)
}

func (s *RemoteSource) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, url.PathEscape(name))
	if errorx.IsNotFound(err) {
		return nil, errorx.NotFound(name)
	}
	return data, err
}
