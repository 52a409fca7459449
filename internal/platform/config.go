package platform

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/tenor/pkg/adapters/fs"
	"github.com/aretw0/tenor/pkg/annotator"
	"github.com/aretw0/tenor/pkg/core"
)

// Annotator kinds understood by NewAnnotator.
const (
	KindLexicon = "lexicon"
	KindCoreNLP = "corenlp"
	KindStatic  = "static"
)

// Config is the file-backed configuration of a tenor run. Zero values mean
// "use the default" for every numeric field.
type Config struct {
	Workers int    `yaml:"workers" validate:"gte=0,lte=1024"`
	Queue   int    `yaml:"queue" validate:"gte=0"`
	Policy  string `yaml:"policy" validate:"oneof=fail-fast isolate"`
	Format  string `yaml:"format" validate:"oneof=json yaml yml markdown md ansi table table-md"`
	Include string `yaml:"include"`
	Out     string `yaml:"out"`

	Annotator AnnotatorConfig `yaml:"annotator"`
}

// AnnotatorConfig selects and tunes the sentiment engine.
type AnnotatorConfig struct {
	Kind string `yaml:"kind" validate:"oneof=lexicon corenlp static"`
	// Concurrency overrides the mode the engine declares for itself.
	Concurrency string `yaml:"concurrency" validate:"omitempty,oneof=reentrant serialized per-worker"`

	Lexicon  string `yaml:"lexicon"`
	Fixtures string `yaml:"fixtures" validate:"required_if=Kind static"`

	URL     string        `yaml:"url" validate:"omitempty,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`

	// Rate caps engine calls per second across all workers. Zero disables it.
	Rate  float64 `yaml:"rate" validate:"gte=0"`
	Burst int     `yaml:"burst" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Policy:  string(core.FailFast),
		Format:  "json",
		Include: fs.DefaultInclude,
		Annotator: AnnotatorConfig{
			Kind:    KindLexicon,
			URL:     annotator.DefaultCoreNLPURL,
			Timeout: 60 * time.Second,
			Burst:   1,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Keys missing from the
// file keep their defaults. The result is not validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports every invalid field at once, named by its YAML key.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: %v is not one of [%s]", field, fe.Value(), fe.Param()))
		case "required_if":
			msgs = append(msgs, fmt.Sprintf("%s: required when %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
