package log

import (
	"context"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

//日志配置，Filename 为空时输出到 stderr
type Config struct {
	Filename string
	//单个文件大小上限，单位 MB
	MaxSize    int
	MaxBackups int
	//保留天数
	MaxAge   int
	Compress bool
	//debug/info/warn/error
	Level string
}

type fieldsKey struct{}

var (
	mux    sync.RWMutex
	logger = newConsoleLogger(zapcore.InfoLevel)
	closer io.Closer
)

func newConsoleLogger(level zapcore.Level) *zap.SugaredLogger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

func Init(conf Config) error {
	level := zapcore.InfoLevel
	if conf.Level != "" {
		if err := level.UnmarshalText([]byte(conf.Level)); err != nil {
			return err
		}
	}

	if conf.Filename == "" {
		replace(newConsoleLogger(level), nil)
		return nil
	}

	writer := &lumberjack.Logger{
		Filename:   conf.Filename,
		MaxSize:    conf.MaxSize,
		MaxBackups: conf.MaxBackups,
		MaxAge:     conf.MaxAge,
		Compress:   conf.Compress,
	}
	encoderConf := zap.NewProductionEncoderConfig()
	encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConf), zapcore.AddSync(writer), level)
	replace(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar(), writer)
	return nil
}

func replace(l *zap.SugaredLogger, c io.Closer) {
	mux.Lock()
	defer mux.Unlock()
	_ = logger.Sync()
	if closer != nil {
		_ = closer.Close()
	}
	logger, closer = l, c
}

//刷盘，并关闭滚动日志文件，之后的日志回到 stderr
func Close() error {
	mux.Lock()
	defer mux.Unlock()
	err := logger.Sync()
	if closer != nil {
		err = closer.Close()
		closer = nil
	}
	logger = newConsoleLogger(zapcore.InfoLevel)
	return err
}

func Sync() error {
	mux.RLock()
	defer mux.RUnlock()
	return logger.Sync()
}

//在 ctx 上追加 key/value 字段，后续 *Contextf 会带上
func WithFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	prev, _ := ctx.Value(fieldsKey{}).([]interface{})
	fields := make([]interface{}, 0, len(prev)+len(keysAndValues))
	fields = append(fields, prev...)
	fields = append(fields, keysAndValues...)
	return context.WithValue(ctx, fieldsKey{}, fields)
}

func fromContext(ctx context.Context) *zap.SugaredLogger {
	mux.RLock()
	l := logger
	mux.RUnlock()
	if ctx == nil {
		return l
	}
	if fields, ok := ctx.Value(fieldsKey{}).([]interface{}); ok && len(fields) > 0 {
		return l.With(fields...)
	}
	return l
}

func DebugContextf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Debugf(format, args...)
}

func InfoContextf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Infof(format, args...)
}

func WarnContextf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Warnf(format, args...)
}

func ErrorContextf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Errorf(format, args...)
}
