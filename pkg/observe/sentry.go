package observe

import (
	"encoding/json"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap/zapcore"
)

const (
	_sentryMaxErrorDepth  = 9
	_sentryFlushTimeout   = 5 * time.Second
	_sentryRequestTimeout = 5 * time.Second
)

// SentryHook forwards error-level log lines to Sentry. It implements
// io.Writer so it can be attached to the zap logger as an extra sink.
type SentryHook struct {
	appEnv  string
	appName string
}

func NewSentryHook(appEnv, appName, dsn string, isDebug bool) *SentryHook {
	if dsn == "" {
		log.Println("sentry hook init: no DSN, events will be dropped")
	}

	transport := sentry.NewHTTPTransport()
	transport.Timeout = _sentryRequestTimeout

	if err := sentry.Init(sentry.ClientOptions{
		AttachStacktrace: true,
		Debug:            isDebug,
		Dsn:              dsn,
		Environment:      appEnv,
		MaxErrorDepth:    _sentryMaxErrorDepth,
		ServerName:       appName,
		Transport:        transport,
	}); err != nil {
		log.Println("sentry hook init error:", err.Error())
	}

	return &SentryHook{
		appEnv:  appEnv,
		appName: appName,
	}
}

func (h *SentryHook) Write(p []byte) (int, error) {
	var line struct {
		Level      string `json:"level"`
		Message    string `json:"msg"`
		Error      string `json:"error"`
		CallerFile string `json:"caller_file"`
		CallerLine int    `json:"caller_line"`
		CallerFunc string `json:"caller_func"`
		Stack      string `json:"stack"`
	}

	if err := json.Unmarshal(p, &line); err != nil {
		return len(p), nil
	}

	level, err := zapcore.ParseLevel(line.Level)
	if err != nil || level < zapcore.ErrorLevel || line.Message == "" {
		return len(p), nil
	}

	event := sentry.NewEvent()
	event.Level = mapLevel(level)
	event.Environment = h.appEnv
	event.Message = line.Message
	event.Extra["AppName"] = h.appName
	event.Extra["Error"] = line.Error
	event.Extra["CallerFile"] = line.CallerFile
	event.Extra["CallerLine"] = line.CallerLine
	event.Extra["CallerFunc"] = line.CallerFunc
	event.Extra["Stack"] = line.Stack
	event.Exception = append(event.Exception, sentry.Exception{
		Type:       line.Message,
		Value:      line.Error,
		Stacktrace: sentry.NewStacktrace(),
	})

	sentry.CaptureEvent(event)

	return len(p), nil
}

func (h *SentryHook) Flush() {
	sentry.Flush(_sentryFlushTimeout)
}

func mapLevel(zl zapcore.Level) sentry.Level {
	switch zl {
	case zapcore.DebugLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.FatalLevel, zapcore.PanicLevel:
		return sentry.LevelFatal
	}

	return sentry.LevelDebug
}
