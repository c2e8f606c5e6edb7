package logger

import (
	"fmt"
	"log"
	"strings"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

var LoggerEnabled = true

type DefaultLogger struct {
	name string
}

func NewDefaultLogger(name string) *DefaultLogger {
	return &DefaultLogger{name: name}
}

func (d *DefaultLogger) Debug(msg string, args ...any) {
	d.emit("DEBUG", msg, args)
}

func (d *DefaultLogger) Info(msg string, args ...any) {
	d.emit("INFO", msg, args)
}

func (d *DefaultLogger) Error(msg string, args ...any) {
	d.emit("ERROR", msg, args)
}

func (d *DefaultLogger) emit(level, msg string, args []any) {
	if !LoggerEnabled {
		return
	}
	log.Printf("[%s] %s | %s%s\n", level, d.name, msg, kvPairs(args))
}

func kvPairs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, " %v", args[i])
		}
	}
	return b.String()
}
