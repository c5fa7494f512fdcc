package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/petshop/backend/internal/domain/reseller"
	"github.com/petshop/backend/internal/domain/shared/valueobject"
)

// TierList stores reseller tiers as a jsonb array in declared order
type TierList []reseller.TierDiscount

// Value implements driver.Valuer
func (t TierList) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]reseller.TierDiscount(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (t *TierList) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*t = TierList{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into TierList", value)
	}
	var tiers []reseller.TierDiscount
	if err := json.Unmarshal(data, &tiers); err != nil {
		return err
	}
	*t = tiers
	return nil
}

// ResellerCategoryModel is the persistence model for the ResellerCategory aggregate
type ResellerCategoryModel struct {
	TenantAggregateModel
	Name      string               `gorm:"type:varchar(100);not null"`
	Currency  valueobject.Currency `gorm:"type:varchar(3);not null"`
	Tiers     TierList             `gorm:"type:jsonb;not null"`
	IsDeleted bool                 `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (ResellerCategoryModel) TableName() string {
	return "reseller_categories"
}

// ToDomain converts the persistence model to a domain ResellerCategory
func (m *ResellerCategoryModel) ToDomain() *reseller.ResellerCategory {
	c := &reseller.ResellerCategory{
		Name:      m.Name,
		Currency:  m.Currency,
		Tiers:     append([]reseller.TierDiscount(nil), m.Tiers...),
		IsDeleted: m.IsDeleted,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain ResellerCategory
func (m *ResellerCategoryModel) FromDomain(c *reseller.ResellerCategory) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Currency = c.Currency
	m.Tiers = TierList(c.Tiers)
	m.IsDeleted = c.IsDeleted
}

// ResellerCategoryModelFromDomain creates a new persistence model from a domain ResellerCategory
func ResellerCategoryModelFromDomain(c *reseller.ResellerCategory) *ResellerCategoryModel {
	m := &ResellerCategoryModel{}
	m.FromDomain(c)
	return m
}
