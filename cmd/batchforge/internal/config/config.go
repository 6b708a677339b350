package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-yaml"

	"github.com/batchforge/batchforge/bfcompile"
)

const FileName = ".batchforge.yml"

// Document is the on-disk shape of the project config: a schema version plus
// the compiler input.
type Document struct {
	Version string           `yaml:"version"`
	Compile bfcompile.Config `yaml:",inline"`
}

func Default() Document {
	return Document{
		Version: "1",
		Compile: bfcompile.Default(),
	}
}

type Loader interface {
	Load(path string) (Document, error)
}

type Writer interface {
	Write(w io.Writer, doc Document) error
}

type Finder interface {
	Find(startDir string) (doc Document, projectDir string, err error)
}

type yamlLoader struct{}

func NewLoader() Loader {
	return &yamlLoader{}
}

// Load reads and strictly decodes the config file over the defaults, then
// runs the full compiler validation so every violation is reported at once.
func (l *yamlLoader) Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrap(err, "failed to read config file")
	}

	doc := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
	if err := dec.Decode(&doc); err != nil {
		return Document{}, errors.Wrap(err, "failed to parse config file")
	}

	if doc.Version != "1" {
		return Document{}, errors.Newf("unsupported config version %q, expected \"1\"", doc.Version)
	}
	if err := bfcompile.Validate(doc.Compile); err != nil {
		return Document{}, err
	}

	return doc, nil
}

type yamlWriter struct{}

func NewWriter() Writer {
	return &yamlWriter{}
}

func (w *yamlWriter) Write(wr io.Writer, doc Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if _, err := wr.Write(data); err != nil {
		return errors.Wrap(err, "failed to write config")
	}

	return nil
}

type finder struct {
	loader Loader
}

func NewFinder(loader Loader) Finder {
	return &finder{loader: loader}
}

func (f *finder) Find(startDir string) (Document, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			doc, err := f.loader.Load(configPath)
			if err != nil {
				return Document{}, "", err
			}
			return doc, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Document{}, "", errors.Newf(
				"config file %s not found (searched from %s to root)",
				FileName, startDir,
			)
		}
		dir = parent
	}
}

func WriteToFile(dir string, doc Document, w Writer) error {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}
	defer f.Close()

	return w.Write(f, doc)
}
