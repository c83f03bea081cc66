// Package logger 提供统一的日志工具（控制台 + 文件）
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Level 日志级别
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel 解析日志级别字符串，无法识别时返回 INFO
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Options 日志初始化参数
type Options struct {
	Level   string
	Console bool
	// FilePath 为空表示不写文件
	FilePath string
}

// Logger 日志记录器
type Logger struct {
	mu       sync.Mutex
	level    Level
	console  bool
	stdout   io.Writer
	filePath string
	fileOut  *os.File
	logger   *log.Logger
	now      func() time.Time
}

var defaultLogger = New()

// New 创建新的 Logger 实例（仅输出到控制台）
func New() *Logger {
	return &Logger{
		level:   INFO,
		console: true,
		stdout:  os.Stdout,
		logger:  log.New(os.Stdout, "", 0),
		now:     time.Now,
	}
}

// NewWithWriter 创建输出到指定 writer 的 Logger，主要用于测试
func NewWithWriter(w io.Writer, level Level) *Logger {
	l := New()
	l.stdout = w
	l.level = level
	l.logger.SetOutput(w)
	return l
}

// Default 获取默认 logger
func Default() *Logger {
	return defaultLogger
}

// Configure 按参数设置级别、控制台和日志文件
func (l *Logger) Configure(opts Options) error {
	l.SetLevel(ParseLevel(opts.Level))
	l.SetConsole(opts.Console)
	return l.SetFile(opts.FilePath)
}

// SetLevel 设置日志级别
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetConsole 设置是否输出到控制台
func (l *Logger) SetConsole(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = enabled
	l.updateOutput()
}

// SetFile 设置日志文件，path 为空时关闭文件输出
func (l *Logger) SetFile(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileOut != nil {
		l.fileOut.Close()
		l.fileOut = nil
	}
	l.filePath = path

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			l.updateOutput()
			return fmt.Errorf("无法打开日志文件: %w", err)
		}
		l.fileOut = f
	}

	l.updateOutput()
	return nil
}

// FilePath 当前日志文件路径
func (l *Logger) FilePath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filePath
}

func (l *Logger) updateOutput() {
	var writers []io.Writer

	if l.console {
		writers = append(writers, l.stdout)
	}
	if l.fileOut != nil {
		writers = append(writers, l.fileOut)
	}

	switch len(writers) {
	case 0:
		l.logger.SetOutput(io.Discard)
	case 1:
		l.logger.SetOutput(writers[0])
	default:
		l.logger.SetOutput(io.MultiWriter(writers...))
	}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := l.now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("%s | %-5s | %s", timestamp, level.String(), msg)
}

// Debug 输出 DEBUG 级别日志
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info 输出 INFO 级别日志
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn 输出 WARN 级别日志
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error 输出 ERROR 级别日志
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// LogEvent 记录带分类的事件日志
// category: SCAN / CLK / RGN 等
func (l *Logger) LogEvent(category string, ok bool, elapsedMs float64, detail string) {
	if ok {
		l.Info("%-4s | OK | %6.1fms | %s", category, elapsedMs, detail)
	} else {
		l.Error("%-4s | NG | %6.1fms | %s", category, elapsedMs, detail)
	}
}

// Close 关闭日志文件
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileOut != nil {
		err := l.fileOut.Close()
		l.fileOut = nil
		l.updateOutput()
		return err
	}
	return nil
}

// 包级别便捷函数
func Configure(opts Options) error             { return defaultLogger.Configure(opts) }
func Debug(format string, args ...interface{}) { defaultLogger.Debug(format, args...) }
func Info(format string, args ...interface{})  { defaultLogger.Info(format, args...) }
func Warn(format string, args ...interface{})  { defaultLogger.Warn(format, args...) }
func Error(format string, args ...interface{}) { defaultLogger.Error(format, args...) }
func Close() error                             { return defaultLogger.Close() }
func LogEvent(category string, ok bool, elapsedMs float64, detail string) {
	defaultLogger.LogEvent(category, ok, elapsedMs, detail)
}
