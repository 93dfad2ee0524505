package postgres

import (
	"time"

	"basket/internal/domain/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// discountColumns flattens a discount rule into its three nullable columns.
func discountColumns(rule *entity.DiscountRule) (kind *string, value *decimal.Decimal, expiresAt *time.Time) {
	if rule == nil {
		return nil, nil, nil
	}

	k := string(rule.Kind)
	v := rule.Magnitude

	return &k, &v, rule.ExpiresAt
}

// discountFromColumns rebuilds a discount rule; a null kind means none.
func discountFromColumns(kind *string, value *decimal.Decimal, expiresAt *time.Time) *entity.DiscountRule {
	if kind == nil || value == nil {
		return nil
	}

	return &entity.DiscountRule{
		Kind:      entity.DiscountKind(*kind),
		Magnitude: *value,
		ExpiresAt: expiresAt,
	}
}

// page is a gorm scope applying limit and offset when set.
func page(limit, offset int) func(q *gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if limit > 0 {
			q = q.Limit(limit)
		}
		if offset > 0 {
			q = q.Offset(offset)
		}

		return q
	}
}
