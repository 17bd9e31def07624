package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Level уровень логирования
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger логгер сервиса
// Пишет одновременно в файл и в stdout
type Logger struct {
	level Level
	out   *log.Logger
	file  *os.File
}

// New создает новый логгер
// filePath - путь к файлу логов (директория создается при необходимости)
// levelStr - минимальный уровень логирования: debug | info | warn | error
func New(filePath string, levelStr string) (*Logger, error) {
	level, err := parseLevel(levelStr)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("logger: failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logger: failed to open log file: %w", err)
	}

	return &Logger{
		level: level,
		out:   log.New(io.MultiWriter(os.Stdout, file), "", log.LstdFlags|log.Lmicroseconds),
		file:  file,
	}, nil
}

// Close закрывает файл логов
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Debug логирует сообщение уровня DEBUG
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(LevelDebug, "DEBUG", format, v...)
}

// Info логирует сообщение уровня INFO
func (l *Logger) Info(format string, v ...interface{}) {
	l.log(LevelInfo, "INFO", format, v...)
}

// Warn логирует сообщение уровня WARN
func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(LevelWarn, "WARN", format, v...)
}

// Error логирует сообщение уровня ERROR
func (l *Logger) Error(format string, v ...interface{}) {
	l.log(LevelError, "ERROR", format, v...)
}

// Fatal логирует сообщение и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.log(LevelError, "FATAL", format, v...)
	l.Close()
	os.Exit(1)
}

func (l *Logger) log(level Level, tag string, format string, v ...interface{}) {
	if level < l.level {
		return
	}
	l.out.Printf("[%s] %s", tag, fmt.Sprintf(format, v...))
}

func parseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("logger: unknown log level %q", s)
	}
}
