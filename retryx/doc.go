// Package retryx 重试执行器：失败后按 2^n 秒指数退避重试，
// NotFound 类错误立即返回不重试，重试耗尽后包装为 RetriesExhausted。
//
// 退避循环本身交给 github.com/cenkalti/backoff/v4。
package retryx
