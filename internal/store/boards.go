package store

import (
	"cardbase/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultColumnName is given to the single column created alongside a new
// board.
const DefaultColumnName = "All Cards"

// ListBoards returns all boards owned by the user.
func (s *Store) ListBoards(userID uint64) ([]models.Board, error) {
	var boards []models.Board
	err := s.db.Where("user_id = ?", userID).Order("id").Find(&boards).Error
	return boards, err
}

// FindBoard returns the board only when the user owns it.
func (s *Store) FindBoard(userID, id uint64) (*models.Board, error) {
	var board models.Board
	err := s.db.Where("user_id = ? AND id = ?", userID, id).First(&board).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &board, nil
}

// FindBoardByName returns the user's first board with the given name. The
// link ingestion path locates its target board this way.
func (s *Store) FindBoardByName(userID uint64, name string) (*models.Board, error) {
	var board models.Board
	err := s.db.Where("user_id = ? AND name = ?", userID, name).Order("id").First(&board).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &board, nil
}

// CreateBoardWithDefaults creates the board together with its default
// "All Cards" column and one empty card. The three writes commit or roll
// back as a unit; a board without its default column is a correctness
// violation.
func (s *Store) CreateBoardWithDefaults(board *models.Board) error {
	if board.Options == nil {
		board.Options = datatypes.JSONMap{}
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}
		column := models.Column{
			UserID:                  board.UserID,
			BoardID:                 board.ID,
			Name:                    DefaultColumnName,
			SortOrder:               datatypes.JSONMap{},
			CardInclusionConditions: datatypes.JSON("[]"),
			CardGrouping:            datatypes.JSONMap{},
			Summary:                 datatypes.JSONMap{},
		}
		if err := tx.Create(&column).Error; err != nil {
			return err
		}
		card := models.Card{
			UserID:      board.UserID,
			BoardID:     board.ID,
			FieldValues: datatypes.JSONMap{},
		}
		return tx.Create(&card).Error
	})
}

// UpdateBoard persists the full board record.
func (s *Store) UpdateBoard(board *models.Board) error {
	return s.db.Save(board).Error
}

// DeleteBoard removes the board and cascades over its cards, columns, and
// elements in one transaction.
func (s *Store) DeleteBoard(board *models.Board) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", board.ID).Delete(&models.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", board.ID).Delete(&models.Column{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", board.ID).Delete(&models.Element{}).Error; err != nil {
			return err
		}
		return tx.Delete(board).Error
	})
}
