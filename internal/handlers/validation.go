package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
)

// registerValidators adds the ledger's binding tags to gin's validator engine.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		slog.Warn("Binding engine is not go-playground/validator, custom tags unavailable")
		return
	}
	if err := v.RegisterValidation("userid", validUserID); err != nil {
		slog.Error("Failed to register userid validation", slog.String("error", err.Error()))
	}
}

// validUserID accepts ids that can name a personal account.
func validUserID(fl validator.FieldLevel) bool {
	return domain.Personal(domain.UserID(fl.Field().String())).Validate() == nil
}
