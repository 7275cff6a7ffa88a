package product

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/rl1809/order-service/internal/core/domain"
)

const validatePath = "/api/products/validate"

// productRecord is the wire shape of a validated product. It is shared
// with the Redis cache so cached entries stay readable across both.
type productRecord struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type validateRequest struct {
	IDs []string `json:"ids"`
}

// HTTPValidator resolves product ids against the remote product service.
type HTTPValidator struct {
	baseURL string
	client  *http.Client
	tracer  trace.Tracer
}

func NewHTTPValidator(baseURL string) *HTTPValidator {
	return &HTTPValidator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			// no client-level timeout, the caller's context bounds each call
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
		tracer: otel.Tracer("product-validator"),
	}
}

func (v *HTTPValidator) Validate(ctx context.Context, ids []string) ([]domain.Product, error) {
	ctx, span := v.tracer.Start(ctx, "validate-products", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	body, err := json.Marshal(validateRequest{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("encode validate request: %w", err)
	}

	url := v.baseURL + validatePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("build validate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	span.SetAttributes(
		attribute.String("http.url", url),
		attribute.Int("product.ids", len(ids)),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := v.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("call product service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := errors.New(upstreamMessage(resp))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var records []productRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("decode product response: %w", err)
	}

	products := make([]domain.Product, 0, len(records))
	for _, record := range records {
		products = append(products, domain.Product{
			ID:    record.ID,
			Name:  record.Name,
			Price: record.Price,
		})
	}

	return products, nil
}

// upstreamMessage extracts the product service's error message so it can be
// relayed to the caller verbatim.
func upstreamMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return fmt.Sprintf("product service returned status %s", resp.Status)
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}

	return string(bytes.TrimSpace(body))
}
