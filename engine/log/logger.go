// Package log provides named, leveled loggers backed by go-logging. Every engine
// package creates one logger named after itself; all of them share one backend,
// so the sink, the default verbosity and per-package verbosity are set here.
package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/op/go-logging"
)

type Level logging.Level

// The levels that can be passed to SetLevel and SetModuleLevel.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	mu             sync.Mutex
	leveledBackend logging.LeveledBackend
	defaultLevel   = Notice
	moduleLevels   = map[string]Level{}
	modules        = map[string]struct{}{}
)

// Logger is the leveled logging surface used throughout the engine.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates the logger of an engine package and records its name so its level
// can be changed with SetModuleLevel.
//
// Parameters:
//   - name: the package name, shown as the module column of every line
//
// Returns:
//   - Logger: the named logger
func New(name string) Logger {
	mu.Lock()
	modules[name] = struct{}{}
	mu.Unlock()
	return logging.MustGetLogger(name)
}

// Modules returns the names of every logger created with New, sorted.
//
// Returns:
//   - []string: the module names
func Modules() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(modules))
	for name := range modules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SetSink replaces the backend output sink. Default and per-module levels are kept.
//
// Parameters:
//   - sink: destination for formatted log lines
func SetSink(sink io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	backend := logging.NewLogBackend(sink, "", 0)
	leveledBackend = logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	applyLevelsLocked()
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the verbosity of every module without a level of its own.
//
// Parameters:
//   - level: the minimum level that is written
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	defaultLevel = level
	applyLevelsLocked()
}

// SetModuleLevel sets the verbosity of one module, overriding SetLevel for it.
//
// Parameters:
//   - module: the module name passed to New
//   - level: the minimum level that is written
//
// Returns:
//   - error: error if no logger was created for module
func SetModuleLevel(module string, level Level) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := modules[module]; !ok {
		return fmt.Errorf("unknown log module %q", module)
	}
	moduleLevels[module] = level
	leveledBackend.SetLevel(toLogging(level), module)
	return nil
}

// applyLevelsLocked pushes the default and module levels to the backend. Caller must hold mu.
func applyLevelsLocked() {
	leveledBackend.SetLevel(toLogging(defaultLevel), "")
	for module, level := range moduleLevels {
		leveledBackend.SetLevel(toLogging(level), module)
	}
}

func toLogging(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func init() {
	SetSink(os.Stdout)
}
