package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"catalog-sync-service/internal/models"
	"gorm.io/gorm"
)

// Currency rates change rarely; cache lookups between runs.
const currencyCacheTTL = 30 * time.Minute

var ErrCurrencyNotFound = errors.New("currency not found")

// CurrencyRepository handles read access to configured currencies with a
// redis read-through cache. The redis client may be nil.
type CurrencyRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewCurrencyRepository creates a new currency repository
func NewCurrencyRepository(db *gorm.DB, redis *redis.Client) *CurrencyRepository {
	return &CurrencyRepository{db: db, redis: redis}
}

// GetByCode retrieves a currency by its code
func (r *CurrencyRepository) GetByCode(ctx context.Context, code string) (*models.Currency, error) {
	cacheKey := fmt.Sprintf("catalog-sync:currencies:%s", code)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var currency models.Currency
			if err := json.Unmarshal([]byte(val), &currency); err == nil {
				return &currency, nil
			}
		}
	}

	var currency models.Currency
	err := r.db.WithContext(ctx).First(&currency, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCurrencyNotFound
		}
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(&currency); err == nil {
			r.redis.Set(ctx, cacheKey, data, currencyCacheTTL)
		}
	}

	return &currency, nil
}

// List retrieves all configured currencies
func (r *CurrencyRepository) List(ctx context.Context) ([]models.Currency, error) {
	var currencies []models.Currency
	err := r.db.WithContext(ctx).Order("code ASC").Find(&currencies).Error
	return currencies, err
}
