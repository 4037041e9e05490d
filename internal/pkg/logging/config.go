package logging

// Поддерживаемые форматы вывода логов.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Поддерживаемые уровни логирования.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Поддерживаемые типы вывода логов.
const (
	OutputStderr = "stderr"
	OutputFile   = "file"
)

// Значения по умолчанию для Config.
const (
	DefaultLevel      = LevelInfo
	DefaultFormat     = FormatText
	DefaultOutput     = OutputStderr
	DefaultFilePath   = "/var/log/botyara.log"
	DefaultMaxSize    = 100 // MB
	DefaultMaxBackups = 3
	DefaultMaxAge     = 7 // days
	DefaultCompress   = true
)

// DefaultConfig возвращает Config со значениями по умолчанию.
func DefaultConfig() Config {
	return Config{
		Level:      DefaultLevel,
		Format:     DefaultFormat,
		Output:     DefaultOutput,
		FilePath:   DefaultFilePath,
		MaxSize:    DefaultMaxSize,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAge,
		Compress:   DefaultCompress,
	}
}

// Config содержит настройки логирования.
type Config struct {
	// Format определяет формат вывода: "json" или "text".
	// По умолчанию: "text".
	Format string `yaml:"format" env:"BOTYARA_LOG_FORMAT" env-default:"text"`

	// Level определяет минимальный уровень логирования.
	// Допустимые значения: "debug", "info", "warn", "error".
	Level string `yaml:"level" env:"BOTYARA_LOG_LEVEL" env-default:"info"`

	// Output определяет куда выводить логи: "stderr" или "file".
	Output string `yaml:"output" env:"BOTYARA_LOG_OUTPUT" env-default:"stderr"`

	// FilePath задаёт путь к файлу логов (при output="file").
	FilePath string `yaml:"filePath" env:"BOTYARA_LOG_FILE_PATH"`

	// MaxSize задаёт максимальный размер файла в мегабайтах перед ротацией.
	MaxSize int `yaml:"maxSize" env:"BOTYARA_LOG_MAX_SIZE" env-default:"100"`

	// MaxBackups задаёт количество backup файлов.
	MaxBackups int `yaml:"maxBackups" env:"BOTYARA_LOG_MAX_BACKUPS" env-default:"3"`

	// MaxAge задаёт максимальный возраст backup файлов в днях.
	MaxAge int `yaml:"maxAge" env:"BOTYARA_LOG_MAX_AGE" env-default:"7"`

	// Compress определяет сжимать ли backup файлы в gzip.
	Compress bool `yaml:"compress" env:"BOTYARA_LOG_COMPRESS" env-default:"true"`
}
