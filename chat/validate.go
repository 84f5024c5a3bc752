package chat

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/miguelmmattar/batepapo-uol-api/model"
)

var validate = validator.New()

func validateRegister(req model.RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidName, err)
	}
	return nil
}

func validateMessage(req model.MessageRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMessage, err)
	}
	return nil
}
