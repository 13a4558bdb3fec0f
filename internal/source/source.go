package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/vinubadlani/Video-Gen/internal/director"
)

// Source loads the scene list of one render.
type Source interface {
	Load() (*director.Script, error)
	Path() string
}

// ScriptSource reads a YAML script written by director.WriteScript or by hand.
type ScriptSource struct {
	path string
}

func NewScriptSource(path string) *ScriptSource {
	return &ScriptSource{path: path}
}

func (s *ScriptSource) Load() (*director.Script, error) {
	return director.ReadScript(s.path)
}

func (s *ScriptSource) Path() string {
	return s.path
}

// LinesSource reads plain text with one scene per line, the way the script
// generator returns it. List markers and overlong lines are dropped.
type LinesSource struct {
	path     string
	Topic    string
	Director *director.Director
}

func NewLinesSource(path string) *LinesSource {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &LinesSource{
		path:     path,
		Topic:    strings.ReplaceAll(stem, "_", " "),
		Director: director.NewDirector(),
	}
}

func (s *LinesSource) Load() (*director.Script, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "read lines %s", s.path)
	}

	script, err := s.Director.GenerateScript(s.Topic, string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "build scenes from %s", s.path)
	}
	return script, nil
}

func (s *LinesSource) Path() string {
	return s.path
}

// NewSource picks a source by file extension. A directory resolves to its
// most recent script file.
func NewSource(path string) (Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "open source")
	}

	if fi.IsDir() {
		latest, err := director.FindLatestScript(path)
		if err != nil {
			return nil, err
		}
		return NewScriptSource(latest), nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewScriptSource(path), nil
	case ".txt", ".md", "":
		return NewLinesSource(path), nil
	default:
		return nil, errors.Errorf("unsupported source type: %s", filepath.Ext(path))
	}
}
