package handlers

import (
	"context"
	"log"

	"cardbase/internal/jsonapi"
	"cardbase/internal/linkmeta"
	"cardbase/internal/models"
	"cardbase/internal/store"
	"cardbase/internal/webhook"

	"github.com/gofiber/fiber/v2"
)

// Element names looked up on the links board by the ingestion job.
const (
	urlElementName   = "URL"
	titleElementName = "Title"
)

// LinksHandler serves POST /custom/links: it accepts a URL, responds
// immediately, and resolves link metadata plus card creation on a submitted
// job. Authentication is by API key.
type LinksHandler struct {
	Store      *store.Store
	Webhook    *webhook.Client
	Parser     linkmeta.Parser
	Dispatcher linkmeta.Dispatcher
}

// Create handles POST /custom/links
func (h *LinksHandler) Create(c *fiber.Ctx) error {
	user := currentUser(c)

	var params linkParams
	if err := c.BodyParser(&params); err != nil {
		return renderErrors(c, jsonapi.InvalidJSON())
	}

	h.Dispatcher.Submit(func() {
		h.ingest(user, params)
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// ingest runs outside the request. Metadata resolution is best-effort: a
// parse failure falls back to the submitted url and title.
func (h *LinksHandler) ingest(user *models.User, params linkParams) {
	ctx := context.Background()

	link := linkmeta.Link{URL: params.URL, Title: params.Title}
	if parsed, err := h.Parser.Parse(ctx, params.URL); err == nil {
		link.URL = parsed.URL
		if link.Title == "" {
			link.Title = parsed.Title
		}
	} else {
		log.Printf("link ingestion: metadata fetch failed for %s: %v", params.URL, err)
	}

	board, err := h.Store.FindBoardByName(user.ID, shareBoardName)
	if err != nil {
		log.Printf("link ingestion: no %q board for user %d: %v", shareBoardName, user.ID, err)
		return
	}

	urlField, err := h.Store.FindFieldElementByName(user.ID, board.ID, urlElementName)
	if err != nil {
		log.Printf("link ingestion: missing %q element on board %d: %v", urlElementName, board.ID, err)
		return
	}
	titleField, err := h.Store.FindFieldElementByName(user.ID, board.ID, titleElementName)
	if err != nil {
		log.Printf("link ingestion: missing %q element on board %d: %v", titleElementName, board.ID, err)
		return
	}

	card := models.Card{
		UserID:  user.ID,
		BoardID: board.ID,
		FieldValues: map[string]interface{}{
			urlField.FieldKey():   link.URL,
			titleField.FieldKey(): link.Title,
		},
	}
	if err := h.Store.CreateCard(&card); err != nil {
		log.Printf("link ingestion: card create failed on board %d: %v", board.ID, err)
		return
	}

	if err := h.mergeWebhook(ctx, &card, board); err != nil {
		log.Printf("link ingestion: webhook sync failed for card %d: %v", card.ID, err)
	}
}

func (h *LinksHandler) mergeWebhook(ctx context.Context, card *models.Card, board *models.Board) error {
	if board.WebhookURL(webhook.EventCardCreate) == "" {
		return nil
	}

	elements, err := h.Store.ListElements(card.UserID, card.BoardID)
	if err != nil {
		return err
	}

	values, err := h.Webhook.Call(ctx, webhook.EventCardCreate, card, board, elements)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}

	merged := card.FieldValues
	for key, value := range values {
		merged[key] = value
	}
	return h.Store.UpdateCardFieldValues(card, merged)
}
