package collide

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/boolattack/internal/attack"
)

// DefaultConfigPath is where `boolattack init` writes its configuration.
const DefaultConfigPath = ".boolattack.yaml"

// Config controls one attack run.
type Config struct {
	Name          string        `yaml:"name"`
	MaxIterations int           `yaml:"max_iterations" validate:"gte=1,lte=100000"`
	Strategy      string        `yaml:"strategy" validate:"oneof=first complexity"`
	Verify        bool          `yaml:"verify"`
	VerifyTimeout time.Duration `yaml:"verify_timeout" validate:"gte=0"`
}

func DefaultConfig() Config {
	return Config{
		Name:          "boolattack",
		MaxIterations: attack.DefaultMaxIterations,
		Strategy:      "first",
		Verify:        false,
		VerifyTimeout: 30 * time.Second,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and the strategy name.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (got %v)", fe.Field(), fe.ActualTag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig reads a YAML configuration. Fields missing from the file keep
// their defaults; an empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// WriteConfig stores config as YAML at path, replacing any existing file.
func WriteConfig(path string, config Config) error {
	if path == "" {
		path = DefaultConfigPath
	}
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}
