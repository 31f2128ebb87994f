package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DynamicLimits is the runtime-changeable part of the graph configuration.
// Operators tune scan caps and thresholds without restarting the host
// process.
type DynamicLimits struct {
	Limits struct {
		MaxImplicitRelationships   int `yaml:"maxImplicitRelationships"`
		MaxCrossGraphRelationships int `yaml:"maxCrossGraphRelationships"`
		MaxComparisons             int `yaml:"maxComparisons"`
	} `yaml:"limits"`
	Thresholds struct {
		MinImplicitSimilarity   float64 `yaml:"minImplicitSimilarity"`
		MinCrossGraphSimilarity float64 `yaml:"minCrossGraphSimilarity"`
		MinRelationshipStrength float64 `yaml:"minRelationshipStrength"`
	} `yaml:"thresholds"`
}

// LimitsWatcher watches a YAML limits file for changes
type LimitsWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	current  *DynamicLimits
	mu       sync.RWMutex
	onChange []func(*DynamicLimits)
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLimitsWatcher creates a watcher for the given limits file.
// The file is loaded once up front; a missing file is an error.
func NewLimitsWatcher(path string, logger *zap.Logger) (*LimitsWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	initial, err := loadLimits(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load limits file: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory: editors replace files rather than write in place
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch limits directory: %w", err)
	}

	return &LimitsWatcher{
		path:    path,
		watcher: fsWatcher,
		current: initial,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Current returns the most recently loaded limits
func (w *LimitsWatcher) Current() *DynamicLimits {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked after each successful reload
func (w *LimitsWatcher) OnChange(fn func(*DynamicLimits)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Start begins watching for file changes in a background goroutine
func (w *LimitsWatcher) Start() {
	go w.loop()
}

// Stop stops the watcher
func (w *LimitsWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
	})
}

func (w *LimitsWatcher) loop() {
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Limits watcher error", zap.Error(err))
		}
	}
}

func (w *LimitsWatcher) reload() {
	limits, err := loadLimits(w.path)
	if err != nil {
		// Keep serving the last good configuration
		w.logger.Warn("Failed to reload limits file, keeping previous limits",
			zap.String("path", w.path),
			zap.Error(err),
		)
		return
	}

	w.mu.Lock()
	w.current = limits
	callbacks := make([]func(*DynamicLimits), len(w.onChange))
	copy(callbacks, w.onChange)
	w.mu.Unlock()

	w.logger.Info("Reloaded graph limits",
		zap.String("path", w.path),
		zap.Int("maxImplicitRelationships", limits.Limits.MaxImplicitRelationships),
		zap.Int("maxCrossGraphRelationships", limits.Limits.MaxCrossGraphRelationships),
		zap.Int("maxComparisons", limits.Limits.MaxComparisons),
	)

	for _, fn := range callbacks {
		fn(limits)
	}
}

func loadLimits(path string) (*DynamicLimits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var limits DynamicLimits
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return nil, err
	}

	return &limits, nil
}
