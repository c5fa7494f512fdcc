package persistence

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// tenantScope restricts a query to one tenant's rows
func tenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// notDeleted hides soft-deleted rows
func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// paginate applies the page window and a whitelisted ordering
func paginate(filter shared.Filter, allowed map[string]bool, defaultOrder string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.PageSize > 0 {
			db = db.Offset(filter.Offset()).Limit(filter.PageSize)
		}
		if field := ValidateSortField(filter.OrderBy, allowed, ""); field != "" {
			return db.Order(field + " " + ValidateSortOrder(filter.OrderDir))
		}
		return db.Order(defaultOrder)
	}
}

// searchScope matches a case-insensitive term against the given columns
func searchScope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// translateNotFound maps gorm's sentinel onto the domain one
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
