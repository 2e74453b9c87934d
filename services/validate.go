package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/roomloop/chat_backend/errs"
)

var validate = validator.New()

// checkField validates a single input value against a rule set and appends
// every violation to acc. Callers run all fields through before deciding to
// fail, so the resulting ValidationError carries the complete picture.
func checkField(acc *[]errs.FieldError, path, value, rules string) {
	err := validate.Var(value, rules)
	if err == nil {
		return
	}

	var msgs []string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			msgs = append(msgs, ruleMessage(fe))
		}
	} else {
		msgs = append(msgs, "is invalid")
	}

	*acc = append(*acc, errs.FieldError{Path: path, Messages: msgs})
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
