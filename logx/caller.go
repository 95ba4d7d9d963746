package logx

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

type caller struct {
	file     string
	line     int
	funcName string
}

// logx 包自身所在目录，用于跳过包内栈帧
var pkgDir = func() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}()

// -------------------- 调用方信息 --------------------

// getCaller 返回 logx 包外第一个栈帧（_test.go 视为包外）
func getCaller() caller {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		inPkg := filepath.Dir(f.File) == pkgDir && !strings.HasSuffix(f.File, "_test.go")
		if !inPkg {
			return caller{
				file:     trimFilePath(f.File),
				line:     f.Line,
				funcName: trimFuncName(f.Function),
			}
		}
		if !more {
			break
		}
	}
	return caller{funcName: "unknown"}
}

var (
	modRootOnce sync.Once
	modRoot     string
)

func getModRoot(fullPath string) string {
	modRootOnce.Do(func() {
		if m, err := findGoModRoot(fullPath); err == nil {
			modRoot = m
		}
	})
	return modRoot
}

// /Users/xxx/converter/retryx/executor.go -> retryx/executor.go
func trimFilePath(fullPath string) string {
	if fullPath == "" {
		return ""
	}
	if root := getModRoot(fullPath); root != "" {
		if rel, err := filepath.Rel(root, fullPath); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return filepath.Base(fullPath)
}

func findGoModRoot(start string) (string, error) {
	dir := filepath.Dir(start)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("go.mod not found from %s", start)
}

// github.com/imattdu/converter/retryx.(*Executor).Run -> (*Executor).Run
func trimFuncName(name string) string {
	if name == "" {
		return "unknown"
	}
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "."); idx >= 0 && idx+1 < len(name) {
		name = name[idx+1:]
	}
	return name
}
