package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	itemKeyRegex = `^[A-Za-z0-9_]+$`
)

const (
	// ItemKeyTag guards component and payment area names, which end up inside
	// the dash-delimited merchant order id.
	ItemKeyTag = "itemkey"
)

var itemKeyPattern = regexp.MustCompile(itemKeyRegex)

var valid = map[string]func(fl validator.FieldLevel) bool{
	ItemKeyTag: ValidateItemKey,
}

func ValidateItemKey(fl validator.FieldLevel) bool {
	return itemKeyPattern.MatchString(fl.Field().String())
}
