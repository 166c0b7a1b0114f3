package controllers

import (
	"errors"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/Kariqs/mebel-api/middlewares"
	"github.com/Kariqs/mebel-api/notify"
	"github.com/Kariqs/mebel-api/services"
	"github.com/Kariqs/mebel-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const msgInternalServerError = "Internal server error"

// Handler holds the services every route handler needs.
type Handler struct {
	Auth    *services.AuthService
	Users   *services.UserService
	Cart    *services.CartService
	Orders  *services.OrderService
	Catalog *services.CatalogService
	Uploads *services.UploadService
	Hub     *notify.Hub
}

func init() {
	// Report validation failures with the JSON field names clients send.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	}
}

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

// respondWithError renders an error returned by a service. Unexpected errors
// are logged and hidden behind a generic message.
func respondWithError(ctx *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", ctx.Request.Method, ctx.FullPath(), err)
		sendErrorResponse(ctx, status, msgInternalServerError)
		return
	}

	var stockErr *utils.InsufficientStockError
	if errors.As(err, &stockErr) {
		sendJSONResponse(ctx, status, gin.H{
			"message":    stockErr.Error(),
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
			"requested":  stockErr.Requested,
		})
		return
	}

	var appErr *utils.Error
	errors.As(err, &appErr)
	body := gin.H{"message": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	sendJSONResponse(ctx, status, body)
}

// bindError converts a request binding failure into a validation error.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return utils.Validation("invalid input", utils.FieldError{Field: "body", Message: err.Error()})
	}

	fields := make([]utils.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		message := "failed on the '" + fe.Tag() + "' rule"
		switch fe.Tag() {
		case "required":
			message = "is required"
		case "email":
			message = "must be a valid email address"
		case "min":
			message = "must be at least " + fe.Param()
		case "oneof":
			message = "must be one of: " + fe.Param()
		}
		fields = append(fields, utils.FieldError{Field: fe.Field(), Message: message})
	}
	return utils.Validation("invalid input", fields...)
}

func idParam(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.Validation("invalid "+name, utils.FieldError{Field: name, Message: "must be a positive integer"})
	}
	return uint(id), nil
}

// currentUser returns the authenticated caller. Routes using it sit behind
// RequireAuth, so a missing user is an internal wiring problem.
func currentUser(ctx *gin.Context) (*services.Claims, bool) {
	claims, ok := middlewares.CurrentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "authorization token required")
	}
	return claims, ok
}
