package logx

const (
	TagUndef        = "undef"
	TagRequestIn    = "request_in"
	TagRequestOut   = "request_out"
	TagRequestError = "request_error"
	TagHttpSuccess  = "http_success"
	TagHttpFailure  = "http_failure"
	TagRetry        = "retry"
	TagFileRead     = "file_read"
	TagSpanEnd      = "span_end"

	Cost = "cost"
	Msg  = "msg"
	Err  = "err"

	Remote   = "remote"
	Method   = "method"
	URL      = "url"
	Path     = "path"
	Query    = "query"
	Status   = "status"
	Body     = "body"
	Response = "response"

	Attempt    = "attempt"
	Delay      = "delay"
	MaxRetries = "max_retries"
	Kind       = "kind"
	Span       = "span"
)
