package catalogapi

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/mrops-br/product-explorer/internal/domain"
	"github.com/shopspring/decimal"
)

// productPayload is the wire shape of a product returned by the catalog API
type productPayload struct {
	ID          int             `json:"id" validate:"gt=0"`
	Title       string          `json:"title" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Rating      ratingPayload   `json:"rating"`
}

type ratingPayload struct {
	Rate  float64 `json:"rate" validate:"gte=0,lte=5"`
	Count int     `json:"count" validate:"gte=0"`
}

func (p productPayload) toDomain() domain.Product {
	return domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Description: p.Description,
		Rating: domain.Rating{
			Rate:  p.Rating.Rate,
			Count: p.Rating.Count,
		},
	}
}

// newValidator returns a validator that understands decimal prices
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}
