package learner

import (
	"github.com/banshee-data/spellbook/internal/config"
	"github.com/banshee-data/spellbook/internal/contract"
	"github.com/banshee-data/spellbook/internal/neural"
	"github.com/banshee-data/spellbook/internal/preprocess"
)

// Settings configures a Learner.
type Settings struct {
	Grid preprocess.GridSize
	// MaxHands is the largest hand count with its own network.
	MaxHands             int
	HiddenLayers         int
	RecognitionThreshold float64
	Train                neural.TrainSettings
	// Seed fixes the random stream of every trainer; hand h uses Seed+h.
	Seed uint64
}

// DefaultSettings returns the stock learner parameters.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.EmptyLearnerConfig())
}

// SettingsFromConfig maps a LearnerConfig onto Settings.
func SettingsFromConfig(cfg *config.LearnerConfig) Settings {
	x, y, z := cfg.GetGrid()
	return Settings{
		Grid:                 preprocess.GridSize{X: x, Y: y, Z: z},
		MaxHands:             2,
		HiddenLayers:         cfg.GetHiddenLayers(),
		RecognitionThreshold: cfg.GetRecognitionThreshold(),
		Train: neural.TrainSettings{
			LearningRate:  cfg.GetLearningRate(),
			Momentum:      cfg.GetMomentum(),
			TargetError:   cfg.GetTargetError(),
			MaxIterations: cfg.GetMaxIterations(),
			WeightMin:     cfg.GetWeightMin(),
			WeightMax:     cfg.GetWeightMax(),
		},
		Seed: cfg.GetSeed(),
	}
}

func (s Settings) validate() error {
	if !s.Grid.Valid() {
		return contract.Invalidf("grid %+v", s.Grid)
	}
	if s.MaxHands < 1 {
		return contract.Invalidf("max hands %d", s.MaxHands)
	}
	if s.HiddenLayers < 0 {
		return contract.Invalidf("hidden layers %d", s.HiddenLayers)
	}
	if s.RecognitionThreshold < 0 || s.RecognitionThreshold > 1 {
		return contract.Invalidf("recognition threshold %v", s.RecognitionThreshold)
	}
	if !s.Train.Valid() {
		return contract.Invalidf("train settings %+v", s.Train)
	}
	return nil
}
