package handler

import (
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidations adds the custom binding tags used by request structs.
// It is safe to call more than once.
func RegisterValidations() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("handler: gin validator engine is not go-playground/validator")
			return
		}
		err = v.RegisterValidation("onechar", func(fl validator.FieldLevel) bool {
			return utf8.RuneCountInString(fl.Field().String()) == 1
		})
	})
	return err
}
