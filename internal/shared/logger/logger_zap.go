// Package logger содержит общий логгер для server и agent.
//
// Пакет предоставляет Zap-логгер, настроенный на запись в файл с ротацией
// (lumberjack) и удобный метод для логирования HTTP-запросов.
package logger

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// HTTPLogger представляет обёртку над zap.Logger для логирования HTTP-событий.
//
// Встраивание *zap.Logger позволяет использовать все методы zap напрямую.
type HTTPLogger struct {
	*zap.Logger
}

// Options — параметры логгера, обычно берутся из секции log конфига.
type Options struct {
	Dir    string // каталог для файлов логов
	File   string // имя файла
	Level  string // debug|info|warn|error
	Format string // json|console
}

// DefaultOptions — runtime/logs/http.log, info, console.
func DefaultOptions() Options {
	return Options{
		Dir:    filepath.Join("runtime", "logs"),
		File:   "http.log",
		Level:  "info",
		Format: "console",
	}
}

// New создаёт файловый zap-логгер для HTTP-логов.
//
// Для файлов включена ротация (MaxSize/MaxBackups/MaxAge) и сжатие архивов.
// Формат времени: "HH:MM:SS DD.MM.YYYY".
// Пустые поля opts заменяются значениями из DefaultOptions.
func New(opts Options) *HTTPLogger {
	def := DefaultOptions()
	if opts.Dir == "" {
		opts.Dir = def.Dir
	}
	if opts.File == "" {
		opts.File = def.File
	}
	_ = os.MkdirAll(opts.Dir, 0755)

	// lumberjack отвечает за ротацию файлов
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, opts.File),
		MaxSize:    100, // MB
		MaxBackups: 10,  // сколько старых файлов хранить
		MaxAge:     30,  // дней
		Compress:   true,
	})

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = customTimeEncoder

	encoder := zapcore.NewConsoleEncoder(encoderCfg)
	if strings.EqualFold(opts.Format, "json") {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, writer, parseLevel(opts.Level))

	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &HTTPLogger{Logger: logger}
}

// LogRequest записывает структурированный лог об HTTP-запросе.
//
// method и uri — параметры запроса,
// status — HTTP-статус ответа,
// responseSize — размер ответа в байтах,
// duration — длительность обработки запроса в миллисекундах.
func (logger *HTTPLogger) LogRequest(method, uri string, status, responseSize int, duration float64) {
	logger.Info("HTTP request",
		zap.String("method", method),
		zap.String("uri", uri),
		zap.Int("status", status),
		zap.Int("response_size", responseSize),
		zap.Float64("duration_ms", duration),
	)
}

// parseLevel переводит строку из конфига в уровень zap, по умолчанию info.
func parseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zap.InfoLevel
	}
	return lvl
}

// customTimeEncoder форматирует время для логов в виде "HH:MM:SS DD.MM.YYYY".
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05 02.01.2006"))
}
