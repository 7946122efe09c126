// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	nameWidth  = 35 // base width for target path
)

// FileAction describes what happened to a mapping target
type FileAction string

const (
	ActionApplied  FileAction = "applied"
	ActionRestored FileAction = "restored"
	ActionCaptured FileAction = "captured"
	ActionRemoved  FileAction = "removed"
	ActionSkipped  FileAction = "skipped"
)

// 🎯 FileOperation represents a file operation for logging
type FileOperation struct {
	Path   string     // target path relative to the project root
	Action FileAction // what was done to it
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.Action {
	case ActionRemoved:
		symbol = '✗'
		symbolColor = color.FgRed
	case ActionApplied:
		symbol = '✓'
		symbolColor = color.FgGreen
	case ActionRestored:
		symbol = '⟳'
		symbolColor = color.FgBlue
	case ActionCaptured:
		symbol = '•'
		symbolColor = color.FgCyan
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	return fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(color.Faint).Sprint(string(op.Action)))
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("action", string(op.Action)).
		Msg("file operation")
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("flavorize")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
