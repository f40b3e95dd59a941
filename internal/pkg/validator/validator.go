package validator

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Get returns the process-wide validator. Struct validation metadata is
// cached inside the instance, so all services share one.
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}
