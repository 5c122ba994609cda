package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type Repository[T any] struct{}

func (repo Repository[T]) Delete(ctx context.Context, db *gorm.DB, entity *T) error {
	return db.WithContext(ctx).Delete(entity).Error
}

func (repo Repository[T]) FindById(ctx context.Context, db *gorm.DB, entity *T, id uint) error {
	return notFound(db.WithContext(ctx).Where("id = ?", id).Take(entity).Error)
}

func (repo Repository[T]) FindAllByIDs(ctx context.Context, db *gorm.DB, ids []uint) ([]T, error) {
	var rows []T
	if len(ids) == 0 {
		return rows, nil
	}
	err := db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&rows).Error
	return rows, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
