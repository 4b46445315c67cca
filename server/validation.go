package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	apiError "github.com/techagentng/civicsafety/errors"
)

var trans ut.Translator

func init() {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = entranslations.RegisterDefaultTranslations(v, trans)
	}
}

// decode binds the JSON body and converts validation failures into a
// 400 carrying human-readable field messages.
func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := make([]string, 0, len(validationErrors))
			for _, fieldError := range validationErrors {
				messages = append(messages, fieldError.Translate(trans))
			}
			return apiError.New(strings.Join(messages, "; "), http.StatusBadRequest)
		}
		return apiError.New("invalid request payload", http.StatusBadRequest)
	}
	return nil
}
