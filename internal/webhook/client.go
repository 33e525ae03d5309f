package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cardbase/internal/models"
)

// Webhook event names, looked up under the board's options.webhooks map.
const (
	EventCardCreate = "card-create"
	EventCardUpdate = "card-update"
)

// DefaultTimeout bounds the synchronous webhook call. The call blocks the
// enclosing request, so it must not hang indefinitely.
const DefaultTimeout = 10 * time.Second

// Client calls an externally configured URL after a card create/update and
// returns the value map the external system wants merged back.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client with the given request timeout; zero selects
// DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// elementProjection is the id+name slice sent to the webhook target.
type elementProjection struct {
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes"`
}

// Call invokes the webhook configured for the event on the card's board.
// When no URL is configured it returns (nil, nil) without any network
// activity. Otherwise it issues one synchronous PATCH to {url}/{card id}
// and returns the response body parsed as a flat element-id-to-value map.
// There is no retry; transport errors, timeouts, and non-2xx responses are
// hard failures of the enclosing request.
func (c *Client) Call(ctx context.Context, event string, card *models.Card, board *models.Board, elements []models.Element) (map[string]interface{}, error) {
	url := board.WebhookURL(event)
	if url == "" {
		return nil, nil
	}

	projections := make([]elementProjection, len(elements))
	for i := range elements {
		projections[i] = elementProjection{
			ID:         elements[i].FieldKey(),
			Attributes: map[string]string{"name": elements[i].Name},
		}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"field-values": card.FieldValues,
		"elements":     projections,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		fmt.Sprintf("%s/%s", url, card.ExternalID()), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook %s: %w", event, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("webhook %s: unexpected status %d", event, resp.StatusCode)
	}

	var values map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&values); err != nil {
		return nil, fmt.Errorf("webhook %s: invalid response body: %w", event, err)
	}
	return values, nil
}
