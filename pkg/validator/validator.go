package validator

import (
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AllowedAudioExtensions lists the recording formats accepted on upload
var AllowedAudioExtensions = []string{".mp3", ".wav", ".m4a", ".webm", ".mp4", ".mpeg", ".mpga"}

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("audiofile", func(fl validator.FieldLevel) bool {
		return IsAllowedAudio(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// IsAllowedAudio reports whether filename carries an accepted audio extension
func IsAllowedAudio(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedAudioExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
