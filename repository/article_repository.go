package repository

import (
	"college-chat/entity"
	"context"

	"gorm.io/gorm"
)

type ArticleRepository struct {
	Repository[entity.Article]
}

func NewArticleRepository() *ArticleRepository {
	return &ArticleRepository{}
}

func (repository ArticleRepository) AttachToMessage(ctx context.Context, db *gorm.DB, message *entity.Message, articles []entity.Article) error {
	if len(articles) == 0 {
		return nil
	}
	return db.WithContext(ctx).Model(message).Omit("Articles.*").Association("Articles").Append(articles)
}

func (repository ArticleRepository) FindInMessage(ctx context.Context, db *gorm.DB, message *entity.Message, ids []uint) ([]entity.Article, error) {
	var articles []entity.Article
	if len(ids) == 0 {
		return articles, nil
	}
	err := db.WithContext(ctx).
		Model(message).
		Where("id IN ?", ids).
		Order("id").
		Association("Articles").
		Find(&articles)
	return articles, err
}

func (repository ArticleRepository) FindByMessage(ctx context.Context, db *gorm.DB, message *entity.Message) ([]entity.Article, error) {
	var articles []entity.Article
	err := db.WithContext(ctx).Model(message).Order("id").Association("Articles").Find(&articles)
	return articles, err
}

// DetachFromMessage removes only the links; the articles themselves stay.
func (repository ArticleRepository) DetachFromMessage(ctx context.Context, db *gorm.DB, message *entity.Message, articles []entity.Article) error {
	if len(articles) == 0 {
		return nil
	}
	return db.WithContext(ctx).Model(message).Association("Articles").Delete(articles)
}
