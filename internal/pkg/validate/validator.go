package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	goValidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
)

type Validator struct {
	validate *goValidator.Validate
	trans    ut.Translator
}

func NewValidator() *Validator {
	validator := goValidator.New(goValidator.WithRequiredStructEnabled())

	// Registering english translator
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	en_translations.RegisterDefaultTranslations(validator, trans)

	// Registering field name translation
	validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// "required" accepts whitespace-only strings; learner turn text must not be
	// blank, so a stricter rule is registered for it.
	validator.RegisterValidation("notblank", func(fl goValidator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	validator.RegisterTranslation("notblank", trans, func(ut ut.Translator) error {
		return ut.Add("notblank", "{0} must not be blank", true)
	}, func(ut ut.Translator, fe goValidator.FieldError) string {
		t, _ := ut.T("notblank", fe.Field())
		return t
	})

	return &Validator{
		validate: validator,
		trans:    trans,
	}
}

func (v *Validator) ParseAndValidate(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return err
	}

	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	errors, ok := err.(goValidator.ValidationErrors)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Request body is not valid")
	}

	fields := v.translateError(errors)
	return NewFieldsError(fields)
}

func (v *Validator) translateError(errs goValidator.ValidationErrors) (fields map[string]string) {
	fields = make(map[string]string)
	for _, e := range errs {
		fields[e.Field()] = e.Translate(v.trans)
	}
	return fields
}
