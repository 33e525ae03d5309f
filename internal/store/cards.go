package store

import (
	"cardbase/internal/models"

	"gorm.io/datatypes"
	"gorm.io/hints"
)

// ListCards returns the cards on a board, ordered by id. Ownership of the
// board is the caller's responsibility; the user predicate still applies.
func (s *Store) ListCards(userID, boardID uint64) ([]models.Card, error) {
	var cards []models.Card
	query := s.db.Where("user_id = ? AND board_id = ?", userID, boardID).Order("id")
	if s.db.Dialector.Name() == "mysql" {
		query = query.Clauses(hints.UseIndex("idx_cards_board_id"))
	}
	err := query.Find(&cards).Error
	return cards, err
}

// FindCard returns the card only when the user owns it.
func (s *Store) FindCard(userID, id uint64) (*models.Card, error) {
	var card models.Card
	err := s.db.Where("user_id = ? AND id = ?", userID, id).First(&card).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &card, nil
}

// CreateCard persists a new card.
func (s *Store) CreateCard(card *models.Card) error {
	if card.FieldValues == nil {
		card.FieldValues = datatypes.JSONMap{}
	}
	return s.db.Create(card).Error
}

// UpdateCard persists the full card record.
func (s *Store) UpdateCard(card *models.Card) error {
	return s.db.Save(card).Error
}

// UpdateCardFieldValues writes only the field-values column. The webhook
// merge uses this for its second persistence write.
func (s *Store) UpdateCardFieldValues(card *models.Card, values datatypes.JSONMap) error {
	card.FieldValues = values
	return s.db.Model(card).Update("field_values", values).Error
}

// DeleteCard removes the card.
func (s *Store) DeleteCard(card *models.Card) error {
	return s.db.Delete(card).Error
}
