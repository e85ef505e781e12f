package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "editor-board/internal/errors"
	"editor-board/internal/models"

	"go.uber.org/zap"
)

// FetchListings downloads a whole listing document. The document is either a
// bare JSON array or the standard envelope with the array in data.
func (c *Client) FetchListings(ctx context.Context, documentURL string, kind models.ListingKind) ([]models.Listing, error) {
	data, _, err := c.do(ctx, request{
		method: http.MethodGet,
		url:    documentURL,
		retry:  true,
	})
	if err != nil {
		c.logger.Error("failed to fetch listings",
			zap.String("url", documentURL),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("fetch %s listings: %w", kind, err)
	}

	listings, err := decodeListings(data)
	if err != nil {
		c.logger.Error("failed to parse listings", zap.String("url", documentURL), zap.Error(err))
		return nil, err
	}

	for i := range listings {
		if listings[i].Kind == "" {
			listings[i].Kind = kind
		}
	}

	c.logger.Debug("listings fetched",
		zap.String("kind", string(kind)),
		zap.Int("count", len(listings)),
	)

	return listings, nil
}

func decodeListings(data []byte) ([]models.Listing, error) {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '[' {
		var listings []models.Listing
		if err := json.Unmarshal(data, &listings); err != nil {
			return nil, apperrors.Internal("unmarshal listings", err)
		}
		return listings, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, apperrors.Internal("unmarshal listings envelope", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return []models.Listing{}, nil
	}

	var listings []models.Listing
	if err := json.Unmarshal(env.Data, &listings); err != nil {
		return nil, apperrors.Internal("unmarshal listings data", err)
	}
	return listings, nil
}
