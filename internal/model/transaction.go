package model

import (
	"time"

	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyHouse     PropertyType = "House"
	PropertyApartment PropertyType = "Apartment"
	PropertyTownhouse PropertyType = "Townhouse"
	PropertyLand      PropertyType = "Land"
)

var PropertyTypes = []PropertyType{PropertyHouse, PropertyApartment, PropertyTownhouse, PropertyLand}

type TransactionStatus string

const (
	StatusListed     TransactionStatus = "listed"
	StatusUnderOffer TransactionStatus = "under_offer"
	StatusSold       TransactionStatus = "sold"
	StatusSettled    TransactionStatus = "settled"
	StatusWithdrawn  TransactionStatus = "withdrawn"
	StatusExpired    TransactionStatus = "expired"
	StatusOffMarket  TransactionStatus = "off_market"
	StatusAuctioned  TransactionStatus = "auctioned"
	StatusPassedIn   TransactionStatus = "passed_in"
	StatusPending    TransactionStatus = "pending"
)

var TransactionStatuses = []TransactionStatus{
	StatusListed, StatusUnderOffer, StatusSold, StatusSettled, StatusWithdrawn,
	StatusExpired, StatusOffMarket, StatusAuctioned, StatusPassedIn, StatusPending,
}

// IsValid reports whether s is one of the known statuses.
func (s TransactionStatus) IsValid() bool {
	for _, known := range TransactionStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Transaction is a property moving through the sales pipeline. Price and
// commission are decimal strings so no precision is lost on the way in.
type Transaction struct {
	BaseModel
	AgencyID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"agency_id"`
	AgentID      *uuid.UUID        `gorm:"type:uuid;index" json:"agent_id"`
	Agent        *Agent            `gorm:"foreignKey:AgentID" json:"agent,omitempty" validate:"-"`
	Address      string            `gorm:"type:varchar(255);not null" json:"address" validate:"required"`
	Suburb       string            `gorm:"type:varchar(100);index" json:"suburb"`
	Postcode     string            `gorm:"type:varchar(10)" json:"postcode" validate:"omitempty,numeric,max=10"`
	PropertyType PropertyType      `gorm:"type:varchar(20);not null" json:"property_type" validate:"required,oneof=House Apartment Townhouse Land"`
	Bedrooms     int               `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int               `json:"bathrooms" validate:"gte=0"`
	Price        string            `gorm:"type:varchar(32);not null;default:'0'" json:"price" validate:"required,decimal"`
	Commission   string            `gorm:"type:varchar(32)" json:"commission" validate:"omitempty,decimal"`
	Status       TransactionStatus `gorm:"type:varchar(20);not null;index" json:"status" validate:"required,transaction_status"`
	ListedDate   *time.Time        `gorm:"type:date" json:"listed_date"`
	SaleDate     *time.Time        `gorm:"column:transaction_date;type:date;index" json:"transaction_date"`
	Notes        string            `gorm:"type:text" json:"notes,omitempty"`
}

// AgentName returns the owning agent's name, or "" when unassigned.
func (t *Transaction) AgentName() string {
	if t.Agent == nil {
		return ""
	}
	return t.Agent.Name
}

// EffectiveDate is the sale date when known, otherwise the record creation time.
func (t *Transaction) EffectiveDate() time.Time {
	if t.SaleDate != nil && !t.SaleDate.IsZero() {
		return *t.SaleDate
	}
	return t.CreatedAt
}

// DatesOrdered checks listed <= sale when both dates are present.
func (t *Transaction) DatesOrdered() bool {
	if t.ListedDate == nil || t.SaleDate == nil {
		return true
	}
	return !t.SaleDate.Before(*t.ListedDate)
}
