package store

import (
	"cardbase/internal/models"

	"gorm.io/datatypes"
)

// ListColumns returns the columns on a board.
func (s *Store) ListColumns(userID, boardID uint64) ([]models.Column, error) {
	var columns []models.Column
	err := s.db.Where("user_id = ? AND board_id = ?", userID, boardID).Order("id").Find(&columns).Error
	return columns, err
}

// FindColumn returns the column only when the user owns it.
func (s *Store) FindColumn(userID, id uint64) (*models.Column, error) {
	var column models.Column
	err := s.db.Where("user_id = ? AND id = ?", userID, id).First(&column).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &column, nil
}

// CreateColumn persists a new column, defaulting the opaque specs to their
// empty forms.
func (s *Store) CreateColumn(column *models.Column) error {
	if column.SortOrder == nil {
		column.SortOrder = datatypes.JSONMap{}
	}
	if column.CardInclusionConditions == nil {
		column.CardInclusionConditions = datatypes.JSON("[]")
	}
	if column.CardGrouping == nil {
		column.CardGrouping = datatypes.JSONMap{}
	}
	if column.Summary == nil {
		column.Summary = datatypes.JSONMap{}
	}
	return s.db.Create(column).Error
}

// UpdateColumn persists the full column record.
func (s *Store) UpdateColumn(column *models.Column) error {
	return s.db.Save(column).Error
}

// DeleteColumn removes the column. Columns are destroyed independently;
// nothing else references them.
func (s *Store) DeleteColumn(column *models.Column) error {
	return s.db.Delete(column).Error
}
