package repository

import (
	"time"

	"github.com/cardinsa/cardinsa/app/models"
	"gorm.io/gorm"
)

// quoteRepository implements the QuoteRepository interface
type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new quote repository instance
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(quote *models.Quote) error {
	return r.db.Create(quote).Error
}

func (r *quoteRepository) GetByID(id uint) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.First(&quote, id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) Update(quote *models.Quote) error {
	return r.db.Save(quote).Error
}

// ListOpenExpiredBefore returns open quotes whose expiry passed before the cutoff
func (r *quoteRepository) ListOpenExpiredBefore(cutoff time.Time, limit int) ([]models.Quote, error) {
	var quotes []models.Quote
	err := r.db.Where("status = ? AND expires_at < ?", models.QUOTE_STATUS_OPEN, cutoff).
		Order("expires_at ASC").Limit(limit).Find(&quotes).Error
	return quotes, err
}

func (r *quoteRepository) MarkExpired(id uint) error {
	return r.db.Model(&models.Quote{}).
		Where("id = ? AND status = ?", id, models.QUOTE_STATUS_OPEN).
		Update("status", models.QUOTE_STATUS_EXPIRED).Error
}
