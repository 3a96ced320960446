package quiz

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/TalelKhemiri/GoCodeMobile/internal/errors"
)

//go:embed modules.json
var bundled []byte

// Icon is the closed set of category icons a module may declare. Parsing an
// unknown icon name fails at load time instead of silently falling back.
type Icon string

const (
	IconTriangleAlert  Icon = "TriangleAlert"
	IconArrowLeftRight Icon = "ArrowLeftRight"
	IconHeartPulse     Icon = "HeartPulse"
	IconBookOpen       Icon = "BookOpen"
)

func ParseIcon(s string) (Icon, error) {
	switch i := Icon(s); i {
	case IconTriangleAlert, IconArrowLeftRight, IconHeartPulse, IconBookOpen:
		return i, nil
	}
	return "", fmt.Errorf("unknown icon %q", s)
}

type Question struct {
	ID            int64    `json:"id"`
	Image         string   `json:"image,omitempty"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Module is a named group of questions on one driving-code topic. Modules
// ship with the client and are immutable.
type Module struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        Icon       `json:"icon"`
	Questions   []Question `json:"questions"`
}

type Registry struct {
	modules []Module
	index   map[string]int
}

// LoadRegistry parses and validates a module dataset.
func LoadRegistry(data []byte) (*Registry, error) {
	var modules []Module
	if err := json.Unmarshal(data, &modules); err != nil {
		return nil, fmt.Errorf("decode modules: %w", err)
	}

	r := &Registry{
		modules: modules,
		index:   make(map[string]int, len(modules)),
	}

	for i, m := range modules {
		if m.ID == "" {
			return nil, fmt.Errorf("module %d: missing id", i)
		}
		if _, dup := r.index[m.ID]; dup {
			return nil, fmt.Errorf("module %s: duplicate id", m.ID)
		}
		if _, err := ParseIcon(string(m.Icon)); err != nil {
			return nil, fmt.Errorf("module %s: %w", m.ID, err)
		}
		if len(m.Questions) == 0 {
			return nil, fmt.Errorf("module %s: no questions", m.ID)
		}
		for _, q := range m.Questions {
			if len(q.Options) < 2 {
				return nil, fmt.Errorf("module %s: question %d: needs at least 2 options", m.ID, q.ID)
			}
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				return nil, fmt.Errorf("module %s: question %d: correctAnswer %d out of range", m.ID, q.ID, q.CorrectAnswer)
			}
		}
		r.index[m.ID] = i
	}

	return r, nil
}

var defaultRegistry = func() *Registry {
	r, err := LoadRegistry(bundled)
	if err != nil {
		// The dataset is compiled into the binary, a bad one is a build defect.
		panic(fmt.Sprintf("quiz: invalid bundled dataset: %v", err))
	}
	return r
}()

// Default returns the registry over the bundled dataset.
func Default() *Registry { return defaultRegistry }

// Modules lists all modules in dataset order.
func (r *Registry) Modules() []Module { return r.modules }

// Module looks up a module by id.
func (r *Registry) Module(id string) (Module, error) {
	i, ok := r.index[id]
	if !ok {
		return Module{}, errors.New(errors.CodeNotFound,
			errors.WithMessagef("module not found: %s", id))
	}
	return r.modules[i], nil
}
