package domain

import "errors"

var (
	// ErrModelLoad is fatal: the server never starts without a model
	ErrModelLoad = errors.New("model could not be loaded")

	ErrEmptyCity           = errors.New("city name is required")
	ErrCityNotFound        = errors.New("city not found")
	ErrIncompleteData      = errors.New("incomplete data received from upstream APIs")
	ErrSynthesis           = errors.New("speech synthesis failed")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrNoResult            = errors.New("no air quality result yet")
)
