package observability

import (
	"github.com/hashicorp/go-hclog"
)

type hclogAdapter struct {
	log hclog.Logger
}

// NewHCLogger backs Logger with an hclog.Logger.
func NewHCLogger(log hclog.Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return hclogAdapter{log: log}
}

func (a hclogAdapter) Debug(msg string, fields ...Field) {
	a.log.Debug(msg, flatten(fields)...)
}

func (a hclogAdapter) Info(msg string, fields ...Field) {
	a.log.Info(msg, flatten(fields)...)
}

func (a hclogAdapter) Error(msg string, fields ...Field) {
	a.log.Error(msg, flatten(fields)...)
}

func flatten(fields []Field) []any {
	if len(fields) == 0 {
		return nil
	}
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}
