package test

import (
	"github.com/kelseyhightower/envconfig"
)

// Config points the integration tests at a real engine installation.
type Config struct {
	JavaBin string `envconfig:"NER_IT_JAVA_BIN" default:"java"`
	JarPath string `envconfig:"NER_IT_JAR_PATH"`
	// NER_IT_MODEL is a serialized classifier, e.g. english.all.3class.distsim.crf.ser.gz
	Model string `envconfig:"NER_IT_MODEL"`
	Heap  string `envconfig:"NER_IT_JAVA_HEAP" default:"1g"`
	// NER_IT_COLOURS enables colorized step headers
	Colours bool `envconfig:"NER_IT_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
