package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/trainer-backend/internal/models"
)

// Topic is a catalog entry clients can offer for task generation
type Topic struct {
	ID          string            `yaml:"id" json:"id"`
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Languages   []models.Language `yaml:"languages" json:"languages"`
}

// Loader manages loading and lookup of topics
type Loader struct {
	mu     sync.RWMutex
	topics map[string]*Topic
}

// NewLoader creates an empty topic loader
func NewLoader() *Loader {
	return &Loader{
		topics: make(map[string]*Topic),
	}
}

// LoadFromDir loads every YAML topic file in dir. Files that fail to parse
// are skipped with a warning.
func (l *Loader) LoadFromDir(dir string) error {
	slog.Info("loading topics from directory", "dir", dir)

	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("failed to read topics dir: %w", err)
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}

	loaded := 0
	for _, file := range files {
		if err := l.LoadFromFile(file); err != nil {
			slog.Warn("failed to load topic", "file", file, "error", err)
			continue
		}
		loaded++
	}

	slog.Info("topics loaded", "count", loaded, "total_files", len(files))
	return nil
}

// LoadFromFile loads a single topic from a YAML file
func (l *Loader) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var topic Topic
	if err := yaml.Unmarshal(data, &topic); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Use id from YAML, fall back to filename without extension
	if topic.ID == "" {
		base := filepath.Base(path)
		topic.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if topic.Name == "" {
		return fmt.Errorf("topic name is required")
	}

	for i, lang := range topic.Languages {
		canonical, ok := models.ParseLanguage(string(lang))
		if !ok {
			return fmt.Errorf("topic %s: unsupported language %q", topic.ID, lang)
		}
		topic.Languages[i] = canonical
	}
	if len(topic.Languages) == 0 {
		topic.Languages = append([]models.Language(nil), models.Languages...)
	}

	l.Add(&topic)

	slog.Debug("topic loaded", "id", topic.ID, "name", topic.Name)
	return nil
}

// Add programmatically adds a topic
func (l *Loader) Add(topic *Topic) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.topics[topic.ID] = topic
}

// Get retrieves a topic by id
func (l *Loader) Get(id string) *Topic {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.topics[id]
}

// List returns all loaded topics sorted by id
func (l *Loader) List() []*Topic {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*Topic, 0, len(l.topics))
	for _, topic := range l.topics {
		result = append(result, topic)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// ResolveTopic returns the display name of the topic with the given id
func (l *Loader) ResolveTopic(id string) (string, bool) {
	topic := l.Get(id)
	if topic == nil {
		return "", false
	}
	return topic.Name, true
}
