package errorx

// Kind 错误种类，封闭集合；新增种类时同步更新 String 与 middleware 的分类表。
type Kind int

const (
	KindUnknown          Kind = iota // 未分类
	KindNotFound                     // 资源不存在，重试无意义
	KindInvalidInputFile             // 输入文件不合法
	KindConversionFailed             // 转换失败
	KindRetriesExhausted             // 重试耗尽
)

// Kinds 返回全部已定义的种类（不含 KindUnknown）
func Kinds() []Kind {
	return []Kind{
		KindNotFound,
		KindInvalidInputFile,
		KindConversionFailed,
		KindRetriesExhausted,
	}
}

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInputFile:
		return "invalid_input_file"
	case KindConversionFailed:
		return "conversion_failed"
	case KindRetriesExhausted:
		return "retries_exhausted"
	default:
		return "unknown"
	}
}

// -------------------- 默认文案 --------------------

const (
	MsgNotFound         = "file not found"
	MsgRetriesExhausted = "action failed after multiple retries"
)
