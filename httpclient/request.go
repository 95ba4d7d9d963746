package httpclient

import (
	"net/http"
	"net/url"
	"time"
)

// Request 一次请求的配置
type Request struct {
	Method  string
	Path    string      // 基于 BaseURL 的相对路径（可带 query），或完整 URL
	Headers http.Header // 请求头

	Timeout time.Duration // 优先级高于 Config.DefaultTimeout
}

type RequestOption func(*Request)

func WithHeader(k, v string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(http.Header)
		}
		r.Headers.Add(k, v)
	}
}

func WithTimeout(t time.Duration) RequestOption {
	return func(r *Request) { r.Timeout = t }
}

// buildURL 组合 baseURL + path；path 为完整 URL 时忽略 baseURL
func (c *Client) buildURL(path string) (string, error) {
	pu, err := url.Parse(path)
	if err != nil {
		return "", err
	}

	if pu.IsAbs() || c.baseURL == nil {
		return pu.String(), nil
	}
	u := c.baseURL.JoinPath(pu.Path)
	u.RawQuery = pu.RawQuery
	return u.String(), nil
}
