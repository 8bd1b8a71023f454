package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Minimal leveled logger used across the service.
// Provides Debugf/Infof/Warnf/Errorf/Fatalf and Init(level).

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	out    = log.New(os.Stdout, "", 0)
	level  = LevelInfo
	levels = map[string]Level{
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"fatal":   LevelFatal,
	}
)

// Init sets the global log level (case-insensitive). Unknown values fall back
// to Info. Call early during startup.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	lv, ok := levels[strings.ToLower(strings.TrimSpace(l))]
	if !ok {
		lv = LevelInfo
	}
	level = lv
}

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	for name, lv := range levels {
		if lv == level && name != "warning" {
			return name
		}
	}
	return "info"
}

func enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func logf(lvl string, format string, v ...interface{}) {
	header := fmt.Sprintf("%s [%s] ", time.Now().Format(time.RFC3339), strings.ToUpper(lvl))
	out.Printf(header+format, v...)
}

func Debugf(format string, v ...interface{}) {
	if enabled(LevelDebug) {
		logf("debug", format, v...)
	}
}

func Infof(format string, v ...interface{}) {
	if enabled(LevelInfo) {
		logf("info", format, v...)
	}
}

func Warnf(format string, v ...interface{}) {
	if enabled(LevelWarn) {
		logf("warn", format, v...)
	}
}

func Errorf(format string, v ...interface{}) {
	if enabled(LevelError) {
		logf("error", format, v...)
	}
}

func Fatalf(format string, v ...interface{}) {
	logf("fatal", format, v...)
	os.Exit(1)
}
