package compat

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/dblog"
	"github.com/panjf2000/gnet/v2/pkg/logging"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter wraps dblog.Logger to implement gnet logging.Logger interface
type GnetAdapter struct {
	logger       *dblog.Logger
	prefix       string
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *dblog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		prefix: "gnet:",
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithGnetPrefix sets the tag written before every gnet message, empty for none
func WithGnetPrefix(prefix string) GnetOption {
	return func(a *GnetAdapter) {
		a.prefix = prefix
	}
}

// args renders a printf-style message and prepends the source tag
func (a *GnetAdapter) args(format string, args []any) []any {
	return a.tagged(fmt.Sprintf(format, args...))
}

// tagged prepends the source tag to msg
func (a *GnetAdapter) tagged(msg string) []any {
	if a.prefix == "" {
		return []any{msg}
	}
	return []any{a.prefix, msg}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logger.Debug(a.args(format, args)...)
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logger.Info(a.args(format, args)...)
}

// Warnf logs at warning level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logger.Warning(a.args(format, args)...)
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logger.Error(a.args(format, args)...)
}

// Fatalf logs at error level and triggers fatal handler
// The logger stays usable; the handler decides whether the process ends.
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Error(append(a.tagged(msg), "(fatal)")...)

	// Ensure log is written before exit
	_ = a.logger.Flush(100 * time.Millisecond)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
