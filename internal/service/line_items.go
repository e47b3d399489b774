package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nagapos/internal/domain"

	"github.com/shopspring/decimal"
)

type lineItemPayload struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    json.RawMessage `json:"quantity"`
	Price       json.RawMessage `json:"price"`
	ImageURL    string          `json:"imageUrl"`
}

// DecodeLineItems turns raw cart lines from a request body into line items.
// Decode failures are reported as ValidationErrors on items[i].<field>.
func DecodeLineItems(raw []json.RawMessage) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(raw))
	for idx, body := range raw {
		item, err := decodeLineItem(idx, body)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeLineItem(idx int, body json.RawMessage) (domain.LineItem, error) {
	var payload lineItemPayload
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			if typeErr.Field != "" {
				return domain.LineItem{}, domain.NewValidationError(lineField(idx, typeErr.Field), "has an invalid type")
			}
			return domain.LineItem{}, domain.NewValidationError(lineField(idx, ""), "must be an object")
		}
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			return domain.LineItem{}, domain.NewValidationError(lineField(idx, ""), "has "+strings.TrimPrefix(err.Error(), "json: "))
		}
		return domain.LineItem{}, domain.NewValidationError(lineField(idx, ""), "is not valid JSON")
	}

	item := domain.LineItem{
		ProductID:   payload.ProductID,
		ProductName: payload.ProductName,
		ImageURL:    payload.ImageURL,
	}
	if present(payload.Quantity) {
		if err := json.Unmarshal(payload.Quantity, &item.Quantity); err != nil {
			return domain.LineItem{}, domain.NewValidationError(lineField(idx, "quantity"), "must be an integer")
		}
	}
	if present(payload.Price) {
		if err := item.Price.UnmarshalJSON(payload.Price); err != nil {
			return domain.LineItem{}, domain.NewValidationError(lineField(idx, "price"), "must be a number")
		}
	} else {
		item.Price = decimal.Zero
	}
	return item, nil
}

func lineField(idx int, field string) string {
	if field == "" {
		return fmt.Sprintf("items[%d]", idx)
	}
	return indexedField("items", idx, field)
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
