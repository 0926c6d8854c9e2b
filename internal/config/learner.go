package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical learner defaults file.
const DefaultConfigPath = "config/learner.defaults.json"

// LearnerConfig holds the gesture learner's tuning parameters. Every field
// is optional; the Get* methods fall back to the stock values for fields
// the file leaves out.
type LearnerConfig struct {
	// Gesture capture
	SamplesPerGesture *int `json:"samples_per_gesture,omitempty"`

	// Preprocessing grid
	GridX *int `json:"grid_x,omitempty"`
	GridY *int `json:"grid_y,omitempty"`
	GridZ *int `json:"grid_z,omitempty"`

	// Network shape and recognition
	HiddenLayers         *int     `json:"hidden_layers,omitempty"`
	RecognitionThreshold *float64 `json:"recognition_threshold,omitempty"`

	// Backpropagation
	LearningRate  *float64 `json:"learning_rate,omitempty"`
	Momentum      *float64 `json:"momentum,omitempty"`
	TargetError   *float64 `json:"target_error,omitempty"`
	MaxIterations *int     `json:"max_iterations,omitempty"`
	WeightMin     *float64 `json:"weight_min,omitempty"`
	WeightMax     *float64 `json:"weight_max,omitempty"`
	Seed          *uint64  `json:"seed,omitempty"`

	TrainTimeout *string `json:"train_timeout,omitempty"` // duration string like "2m"
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptyLearnerConfig returns a LearnerConfig with all fields unset.
func EmptyLearnerConfig() *LearnerConfig {
	return &LearnerConfig{}
}

// LoadLearnerConfig loads a LearnerConfig from a JSON file. The path must
// have a .json extension and the file must be under 1MB.
func LoadLearnerConfig(path string) (*LearnerConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyLearnerConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, looking in the current
// directory and its parents. Panics if the file cannot be loaded; intended
// for test setup.
func MustLoadDefaultConfig() *LearnerConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/storage/sqlite/
	}
	for _, path := range candidates {
		if cfg, err := LoadLearnerConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the ranges of every field that is set.
func (c *LearnerConfig) Validate() error {
	if c.SamplesPerGesture != nil && (*c.SamplesPerGesture < 1 || *c.SamplesPerGesture > 10) {
		return fmt.Errorf("samples_per_gesture must be between 1 and 10, got %d", *c.SamplesPerGesture)
	}
	for name, v := range map[string]*int{"grid_x": c.GridX, "grid_y": c.GridY, "grid_z": c.GridZ} {
		if v != nil && (*v < 1 || *v > 20) {
			return fmt.Errorf("%s must be between 1 and 20, got %d", name, *v)
		}
	}
	if c.HiddenLayers != nil && (*c.HiddenLayers < 0 || *c.HiddenLayers > 5) {
		return fmt.Errorf("hidden_layers must be between 0 and 5, got %d", *c.HiddenLayers)
	}
	for name, v := range map[string]*float64{
		"recognition_threshold": c.RecognitionThreshold,
		"learning_rate":         c.LearningRate,
		"momentum":              c.Momentum,
		"target_error":          c.TargetError,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return fmt.Errorf("%s must be between 0 and 1, got %f", name, *v)
		}
	}
	if c.MaxIterations != nil && (*c.MaxIterations < 1 || *c.MaxIterations > 100000) {
		return fmt.Errorf("max_iterations must be between 1 and 100000, got %d", *c.MaxIterations)
	}
	if c.GetWeightMin() > c.GetWeightMax() {
		return fmt.Errorf("weight_min %f exceeds weight_max %f", c.GetWeightMin(), c.GetWeightMax())
	}
	if c.TrainTimeout != nil && *c.TrainTimeout != "" {
		if _, err := time.ParseDuration(*c.TrainTimeout); err != nil {
			return fmt.Errorf("invalid train_timeout '%s': %w", *c.TrainTimeout, err)
		}
	}
	return nil
}

// GetSamplesPerGesture returns the number of captures recorded per spell.
func (c *LearnerConfig) GetSamplesPerGesture() int {
	if c.SamplesPerGesture == nil {
		return 5
	}
	return *c.SamplesPerGesture
}

// GetGrid returns the preprocessing grid resolution.
func (c *LearnerConfig) GetGrid() (x, y, z int) {
	x, y, z = 6, 6, 1
	if c.GridX != nil {
		x = *c.GridX
	}
	if c.GridY != nil {
		y = *c.GridY
	}
	if c.GridZ != nil {
		z = *c.GridZ
	}
	return x, y, z
}

// GetHiddenLayers returns the number of hidden layers.
func (c *LearnerConfig) GetHiddenLayers() int {
	if c.HiddenLayers == nil {
		return 1
	}
	return *c.HiddenLayers
}

// GetRecognitionThreshold returns the minimum output accepted as a match.
func (c *LearnerConfig) GetRecognitionThreshold() float64 {
	if c.RecognitionThreshold == nil {
		return 0.4
	}
	return *c.RecognitionThreshold
}

// GetLearningRate returns the learning_rate value or the default.
func (c *LearnerConfig) GetLearningRate() float64 {
	if c.LearningRate == nil {
		return 0.3
	}
	return *c.LearningRate
}

// GetMomentum returns the momentum value or the default.
func (c *LearnerConfig) GetMomentum() float64 {
	if c.Momentum == nil {
		return 0.8
	}
	return *c.Momentum
}

// GetTargetError returns the target_error value or the default.
func (c *LearnerConfig) GetTargetError() float64 {
	if c.TargetError == nil {
		return 0.025
	}
	return *c.TargetError
}

// GetMaxIterations returns the max_iterations value or the default.
func (c *LearnerConfig) GetMaxIterations() int {
	if c.MaxIterations == nil {
		return 100
	}
	return *c.MaxIterations
}

func (c *LearnerConfig) GetWeightMin() float64 {
	if c.WeightMin == nil {
		return -1
	}
	return *c.WeightMin
}

func (c *LearnerConfig) GetWeightMax() float64 {
	if c.WeightMax == nil {
		return 1
	}
	return *c.WeightMax
}

// GetSeed returns the RNG seed for training.
func (c *LearnerConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return 0
	}
	return *c.Seed
}

// GetTrainTimeout parses and returns TrainTimeout as a time.Duration.
func (c *LearnerConfig) GetTrainTimeout() time.Duration {
	if c.TrainTimeout == nil || *c.TrainTimeout == "" {
		return 2 * time.Minute
	}
	d, err := time.ParseDuration(*c.TrainTimeout)
	if err != nil {
		return 2 * time.Minute
	}
	return d
}
