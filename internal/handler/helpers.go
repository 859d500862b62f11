package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/apierror"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/batch"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/mirror"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/placement"
	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// decimal.Decimal is a struct; teach the validator to treat it as a float
	// so tags like "required" work on price fields.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// bindAndValidate decodes the JSON body into req and runs struct validation,
// writing the error response itself. Returns false when the request is bad.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid request body"))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// idParam parses the :id path parameter, writing the error response itself.
func idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// sessionID resolves the shopper session from the X-Session-ID header.
func sessionID(c *gin.Context) (string, bool) {
	sid := c.GetHeader("X-Session-ID")
	if sid == "" {
		c.JSON(http.StatusBadRequest, apierror.New("X-Session-ID header is required"))
		return "", false
	}
	return sid, true
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, placement.ErrFeatureNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Not found"))
	case errors.Is(err, service.ErrPresetNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, placement.ErrMoveInFlight):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrPromotionDisabled):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, placement.ErrIndexOutOfRange),
		errors.Is(err, placement.ErrCatalogPriceRequired),
		errors.Is(err, mirror.ErrPriceRequired),
		errors.Is(err, service.ErrNotEligible):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, batch.ErrCommitFailed):
		c.JSON(http.StatusBadGateway,
			apierror.New("Changes could not be fully saved and were rolled back"))
	default:
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
	}
}
