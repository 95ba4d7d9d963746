package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Get 发起一次 GET，返回完整响应体；非成功状态码经 StatusDecoder 转为错误
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) ([]byte, error) {
	req := &Request{Method: http.MethodGet, Path: path}
	for _, opt := range opts {
		opt(req)
	}
	return c.Do(ctx, req)
}

// Do 单次请求：超时、hook、统计、状态码解析
func (c *Client) Do(ctx context.Context, reqCfg *Request) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	timeout := reqCfg.Timeout
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	u, err := c.buildURL(reqCfg.Path)
	if err != nil {
		return nil, err
	}

	stats := &CallStats{Method: reqCfg.Method, URL: u}
	begin := time.Now()
	data, err := c.do(ctx, reqCfg, u, stats)
	stats.Cost = time.Since(begin)
	stats.Err = errString(err)
	stats.Size = len(data)

	if c.statsHook != nil {
		c.statsHook(ctx, stats)
	}
	return data, err
}

func (c *Client) do(ctx context.Context, reqCfg *Request, u string, stats *CallStats) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, reqCfg.Method, u, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range reqCfg.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	stats.Path = httpReq.URL.Path

	for _, h := range c.before {
		h(ctx, httpReq)
	}
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	stats.Status = resp.StatusCode

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if derr := c.statusDecoder(resp.StatusCode, data); derr != nil {
		return nil, derr
	}
	return data, nil
}
