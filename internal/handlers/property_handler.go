package handlers

import (
	"errors"

	"propertyapi/internal/apperrors"
	"propertyapi/internal/services"
	"propertyapi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// PropertyHandler handles HTTP requests for properties.
type PropertyHandler struct {
	service   *services.PropertyService
	validator *validation.Validator
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(service *services.PropertyService, validator *validation.Validator) *PropertyHandler {
	return &PropertyHandler{
		service:   service,
		validator: validator,
	}
}

// RegisterRoutes registers the property routes with the Fiber app.
func (h *PropertyHandler) RegisterRoutes(router fiber.Router) {
	propertyRoutes := router.Group("/properties")
	propertyRoutes.Get("/", h.HandleListProperties)
	propertyRoutes.Get("/:id", h.HandleGetPropertyByID)
	propertyRoutes.Post("/", h.HandleCreateProperty)
	propertyRoutes.Put("/:id", h.HandleUpdateProperty)
	propertyRoutes.Delete("/:id", h.HandleDeleteProperty)
}

// HandleListProperties returns one page of properties matching the query filters.
func (h *PropertyHandler) HandleListProperties(c *fiber.Ctx) error {
	query, err := h.validator.Check(validation.ListProperties, validation.Strings(c.Queries()))
	if err != nil {
		return err
	}

	result, err := h.service.List(c.UserContext(), services.ListFilter{
		Page:      query.Int("page"),
		PageSize:  query.Int("pageSize"),
		Bedrooms:  query.Int("bedrooms"),
		Bathrooms: query.Int("bathrooms"),
		Type:      query.String("type"),
		MinPrice:  query.Float("minPrice"),
		MaxPrice:  query.Float("maxPrice"),
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// HandleGetPropertyByID retrieves a single property by its ID.
func (h *PropertyHandler) HandleGetPropertyByID(c *fiber.Ctx) error {
	id, err := h.propertyID(c)
	if err != nil {
		return err
	}

	property, err := h.service.FindByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(property)
}

// HandleCreateProperty creates a new property.
func (h *PropertyHandler) HandleCreateProperty(c *fiber.Ctx) error {
	body, err := validation.DecodeBody(c.Body())
	if err != nil {
		return err
	}
	fields, err := h.validator.Check(validation.CreateProperty, body)
	if err != nil {
		return err
	}

	property, err := h.service.Create(c.UserContext(), services.CreatePropertyInput{
		Address:   *fields.String("address"),
		Price:     *fields.Float("price"),
		Bedrooms:  *fields.Int("bedrooms"),
		Bathrooms: *fields.Int("bathrooms"),
		Type:      fields.String("type"),
	})
	if err != nil {
		return err
	}
	return c.JSON(property)
}

// HandleUpdateProperty applies a partial update to an existing property.
func (h *PropertyHandler) HandleUpdateProperty(c *fiber.Ctx) error {
	// Path and body are validated together so one response lists every problem.
	_, idErr := h.validator.Check(validation.PropertyID, validation.Strings{"id": c.Params("id")})
	body, err := validation.DecodeBody(c.Body())
	if err != nil {
		return mergeValidationErrors(idErr, err)
	}
	fields, bodyErr := h.validator.Check(validation.UpdateProperty, body)
	if idErr != nil || bodyErr != nil {
		return mergeValidationErrors(idErr, bodyErr)
	}

	id, err := h.propertyID(c)
	if err != nil {
		return err
	}
	property, err := h.service.Update(c.UserContext(), id, services.UpdatePropertyInput{
		Address:   fields.String("address"),
		Price:     fields.Float("price"),
		Bedrooms:  fields.Int("bedrooms"),
		Bathrooms: fields.Int("bathrooms"),
		Type:      fields.String("type"),
	})
	if err != nil {
		return err
	}
	return c.JSON(property)
}

// HandleDeleteProperty deletes a property by its ID.
func (h *PropertyHandler) HandleDeleteProperty(c *fiber.Ctx) error {
	id, err := h.propertyID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PropertyHandler) propertyID(c *fiber.Ctx) (uint, error) {
	params, err := h.validator.Check(validation.PropertyID, validation.Strings{"id": c.Params("id")})
	if err != nil {
		return 0, err
	}
	return uint(*params.Int("id")), nil
}

// mergeValidationErrors joins the field errors of several validation failures
// into one. Any other error is returned as is.
func mergeValidationErrors(errs ...error) error {
	var fieldErrs []apperrors.FieldError
	for _, err := range errs {
		if err == nil {
			continue
		}
		var validationErr *apperrors.DataInputValidationError
		if !errors.As(err, &validationErr) {
			return err
		}
		fieldErrs = append(fieldErrs, validationErr.Errors...)
	}
	return apperrors.NewDataInputValidationError(fieldErrs)
}
