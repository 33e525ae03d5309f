package store

import (
	"slices"

	"cardbase/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListElements returns the elements on a board.
func (s *Store) ListElements(userID, boardID uint64) ([]models.Element, error) {
	var elements []models.Element
	err := s.db.Where("user_id = ? AND board_id = ?", userID, boardID).Order("id").Find(&elements).Error
	return elements, err
}

// FindElement returns the element only when the user owns it.
func (s *Store) FindElement(userID, id uint64) (*models.Element, error) {
	var element models.Element
	err := s.db.Where("user_id = ? AND id = ?", userID, id).First(&element).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &element, nil
}

// FindFieldElementByName returns a board's field element with the given
// name. The link ingestion path locates its url/title targets this way.
func (s *Store) FindFieldElementByName(userID, boardID uint64, name string) (*models.Element, error) {
	var element models.Element
	err := s.db.Where(
		"user_id = ? AND board_id = ? AND element_type = ? AND name = ?",
		userID, boardID, models.ElementTypeField, name,
	).Order("id").First(&element).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &element, nil
}

// validateElement enforces the element enums.
func validateElement(element *models.Element) ValidationErrors {
	var errs ValidationErrors
	if element.ElementType == "" {
		errs = append(errs, FieldError{Field: "element-type", Message: "can't be blank"})
	} else if !slices.Contains(models.ElementTypes, element.ElementType) {
		errs = append(errs, FieldError{Field: "element-type", Message: "is not included in the list"})
	}
	if element.DataType != "" && !slices.Contains(models.DataTypes, element.DataType) {
		errs = append(errs, FieldError{Field: "data-type", Message: "is not included in the list"})
	}
	if element.InitialValue != "" && !slices.Contains(models.InitialValues, element.InitialValue) {
		errs = append(errs, FieldError{Field: "initial-value", Message: "is not included in the list"})
	}
	return errs
}

// CreateElement validates and persists a new element.
func (s *Store) CreateElement(element *models.Element) error {
	if errs := validateElement(element); len(errs) > 0 {
		return errs
	}
	if element.ShowConditions == nil {
		element.ShowConditions = datatypes.JSON("[]")
	}
	if element.Options == nil {
		element.Options = datatypes.JSONMap{}
	}
	return s.db.Create(element).Error
}

// UpdateElement validates and persists the full element record.
func (s *Store) UpdateElement(element *models.Element) error {
	if errs := validateElement(element); len(errs) > 0 {
		return errs
	}
	return s.db.Save(element).Error
}

// DeleteElement removes the element. For field elements the element's key is
// first purged from the field-values map of every card on the board, in the
// same transaction. Button elements never appear as card value keys and
// trigger no fan-out.
func (s *Store) DeleteElement(element *models.Element) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if element.IsField() {
			key := element.FieldKey()
			var cards []models.Card
			if err := tx.Where("board_id = ?", element.BoardID).Find(&cards).Error; err != nil {
				return err
			}
			for i := range cards {
				card := &cards[i]
				if _, ok := card.FieldValues[key]; !ok {
					continue
				}
				delete(card.FieldValues, key)
				if err := tx.Model(card).Update("field_values", card.FieldValues).Error; err != nil {
					return err
				}
			}
		}
		return tx.Delete(element).Error
	})
}
