package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"

	"github.com/StoreAdmin/StoreAdmin/internal/auth"
	"github.com/StoreAdmin/StoreAdmin/internal/db/controller/paging"
)

var validate = validator.New()

// BindJSON decodes the request body into dst and validates it.
// Decoding and validation failures wrap auth.ErrValidation.
func BindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return pkgerrors.Wrap(auth.ErrValidation, "malformed request body")
	}

	return Validate(dst)
}

// Validate runs the struct validation rules of data.
func Validate(data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return pkgerrors.Wrap(auth.ErrValidation, err.Error())
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace()+" failed on "+fe.Tag())
	}

	return pkgerrors.Wrap(auth.ErrValidation, strings.Join(fields, "; "))
}

// ParamID parses the positive numeric route parameter name.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 0)
	if err != nil || id == 0 {
		return 0, pkgerrors.Wrapf(auth.ErrValidation, "invalid %s %q", name, c.Params(name))
	}

	return uint(id), nil
}

// PageRequest reads page, size, sort and direction from the query string.
func PageRequest(c *fiber.Ctx) paging.Request {
	return paging.Request{
		Page:      c.QueryInt("page", 1),
		Size:      c.QueryInt("size", paging.DefaultPageSize),
		Sort:      c.Query("sort"),
		Direction: c.Query("direction"),
	}
}

// Principal returns the request principal. Routes behind the gate always have one.
func Principal(c *fiber.Ctx) (*auth.Principal, error) {
	p := auth.PrincipalFromContext(c)
	if p == nil {
		return nil, auth.ErrUnauthenticated
	}

	return p, nil
}
