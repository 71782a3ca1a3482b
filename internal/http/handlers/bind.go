package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON decodes the request body into out and answers 400 itself on
// failure.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondBadRequest(ctx, bindErrorInfo(err))

		return false
	}

	return true
}

// BindQuery decodes query parameters into out, same contract as BindJSON.
func BindQuery(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindQuery(out)

	if err != nil {
		RespondBadRequest(ctx, bindErrorInfo(err))

		return false
	}

	return true
}

// bindErrorInfo flattens bind failures into the human-readable info
// string the wire contract expects.
func bindErrorInfo(err error) string {
	// validator errors (struct bind tags)

	var validatorError validator.ValidationErrors

	if errors.As(err, &validatorError) {
		parts := make([]string, 0, len(validatorError))

		for _, fieldError := range validatorError {
			parts = append(parts, strings.ToLower(fieldError.Field())+" "+validationMessage(fieldError.Tag(), fieldError.Param()))
		}
		return strings.Join(parts, "; ")
	}

	var syntaxError *json.SyntaxError

	if errors.As(err, &syntaxError) {
		return "malformed JSON body"
	}

	var typeError *json.UnmarshalTypeError

	if errors.As(err, &typeError) {
		if typeError.Field != "" {
			return fmt.Sprintf("field %s must be of type %s", typeError.Field, typeError.Type.String())
		}
		return fmt.Sprintf("body must be of type %s", typeError.Type.String())
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "missing request body"
	}

	return err.Error()
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
