package internal

import (
	"fmt"
	"ner-lab/runtime"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	JavaBin        string `env:"NER_JAVA_BIN,default=java" validate:"required"`
	JarPath        string `env:"NER_JAR_PATH,default=stanford-ner.jar" validate:"required"`
	JavaHeap       string `env:"NER_JAVA_HEAP"`
	WorkDir        string `env:"NER_WORK_DIR" validate:"omitempty,dir"`
	ModelLanguage  string `env:"NER_MODEL_LANGUAGE,default=en" validate:"omitempty,len=2"`
	StrictStderr   bool   `env:"NER_STRICT_STDERR,default=false"`
	BadgerFilepath string `env:"NER_BADGER_FILEPATH"`
	BlugeFilepath  string `env:"NER_BLUGE_FILEPATH"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// LoadConfig reads the process environment.
func LoadConfig() (Config, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	return config, config.Validate()
}

// ParseConfig reads an explicit set of variables, unset ones taking their defaults.
func ParseConfig(es env.EnvSet) (Config, error) {
	var config Config
	if err := env.Unmarshal(es, &config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c Config) JavaOptions() runtime.JavaOptions {
	return runtime.JavaOptions{
		JavaBin:      c.JavaBin,
		JarPath:      c.JarPath,
		Heap:         c.JavaHeap,
		StrictStderr: c.StrictStderr,
	}
}
