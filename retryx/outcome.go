package retryx

import "github.com/imattdu/converter/errorx"

// Outcome 单次执行结果的分类，决定重试循环下一步
type Outcome int

const (
	OutcomeSuccess   Outcome = iota // 成功，直接返回
	OutcomeRetryable                // 可重试
	OutcomeTerminal                 // 终止，原样返回
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Classify NotFound 重试也解决不了，归为终止；其余错误都可重试
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errorx.IsNotFound(err):
		return OutcomeTerminal
	default:
		return OutcomeRetryable
	}
}
