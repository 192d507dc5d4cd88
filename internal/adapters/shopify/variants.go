package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"shopify-repricer/internal/adapters/shopify/dto"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UpdateVariantPrice sets one variant's price. Failures are logged and
// reported as false.
func (c *Client) UpdateVariantPrice(ctx context.Context, variantID int64, price decimal.Decimal) bool {
	formatted := price.StringFixed(2)
	fields := []zap.Field{zap.Int64("variant_id", variantID), zap.String("price", formatted)}

	endpoint, err := c.adminURL(fmt.Sprintf("variants/%d.json", variantID))
	if err != nil {
		c.logger.LogWarning("shopify variant update skipped", append(fields, zap.Error(err))...)
		return false
	}

	body, err := json.Marshal(dto.VariantUpdateRequest{
		Variant: dto.VariantPriceInput{ID: variantID, Price: formatted},
	})
	if err != nil {
		c.logger.LogWarning("shopify variant update encode failed", append(fields, zap.Error(err))...)
		return false
	}

	if _, _, err := c.shopifyAPIRequest(ctx, http.MethodPut, endpoint, bytes.NewReader(body)); err != nil {
		if isThrottled(err) {
			fields = append(fields, zap.Bool("throttled", true))
		}
		c.logger.LogWarning("shopify variant update failed", append(fields, zap.Error(err))...)
		return false
	}
	return true
}
