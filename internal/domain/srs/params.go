package srs

import "github.com/phrazzld/scry-study/internal/domain"

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// Core limits
	MinEaseFactor float64

	// Quality scale
	MinQuality    Quality
	MaxQuality    Quality
	PassThreshold Quality

	// Intervals for the first two successful repetitions
	FirstInterval  int
	SecondInterval int

	// Interval assigned after a failed review
	FailInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	MinEaseFactor  float64
	PassThreshold  Quality
	FirstInterval  int
	SecondInterval int
	FailInterval   int
}

// NewDefaultParams creates a new Params instance with the classic SM-2 values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:  domain.MinEaseFactor,
		MinQuality:     0,
		MaxQuality:     5,
		PassThreshold:  PassingQuality,
		FirstInterval:  1,
		SecondInterval: 6,
		FailInterval:   1,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero values in config keep the defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.PassThreshold > 0 && config.PassThreshold <= params.MaxQuality {
		params.PassThreshold = config.PassThreshold
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.FailInterval > 0 {
		params.FailInterval = config.FailInterval
	}

	return params
}
