package service

import (
	"strconv"
	"time"

	"golang.org/x/text/language"

	"realty-dashboard/internal/listing"
	"realty-dashboard/internal/model"
)

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func agentIDOf(t model.Transaction) string {
	if t.AgentID == nil {
		return ""
	}
	return t.AgentID.String()
}

// TransactionSchema describes the transactions table: search, sortable
// columns and the list filters. Date filters are relative to now.
func TransactionSchema(now time.Time) listing.Schema[model.Transaction] {
	price := listing.ByNumber(func(t model.Transaction) string { return t.Price })
	return listing.Schema[model.Transaction]{
		SearchFields: []func(model.Transaction) string{
			func(t model.Transaction) string { return t.Address },
			func(t model.Transaction) string { return t.Suburb },
			func(t model.Transaction) string { return t.Postcode },
			func(t model.Transaction) string { return t.AgentName() },
			func(t model.Transaction) string { return string(t.PropertyType) },
			func(t model.Transaction) string { return string(t.Status) },
		},
		Sorts: map[string]listing.SortField[model.Transaction]{
			"address":         listing.ByText(func(t model.Transaction) string { return t.Address }),
			"suburb":          listing.ByText(func(t model.Transaction) string { return t.Suburb }),
			"agent":           listing.ByText(func(t model.Transaction) string { return t.AgentName() }),
			"propertyType":    listing.ByText(func(t model.Transaction) string { return string(t.PropertyType) }),
			"status":          listing.ByText(func(t model.Transaction) string { return string(t.Status) }),
			"price":           price,
			"soldPrice":       price,
			"commission":      listing.ByNumber(func(t model.Transaction) string { return t.Commission }),
			"bedrooms":        listing.ByInt(func(t model.Transaction) int64 { return int64(t.Bedrooms) }),
			"listedDate":      listing.ByTime(func(t model.Transaction) time.Time { return timeOrZero(t.ListedDate) }),
			"transactionDate": listing.ByTime(func(t model.Transaction) time.Time { return timeOrZero(t.SaleDate) }),
			"createdAt":       listing.ByTime(func(t model.Transaction) time.Time { return t.CreatedAt }),
		},
		Filters: map[string]listing.Filter[model.Transaction]{
			"propertyType": listing.Equals(func(t model.Transaction) string { return string(t.PropertyType) }),
			"status":       listing.Equals(func(t model.Transaction) string { return string(t.Status) }),
			"agentId":      listing.Equals(agentIDOf),
			"suburb":       listing.Equals(func(t model.Transaction) string { return t.Suburb }),
			"dateRange":    listing.InPeriod(func(t model.Transaction) time.Time { return t.EffectiveDate() }, now),
			"priceRange":   listing.NumberRange(func(t model.Transaction) string { return t.Price }),
		},
		DefaultSort:      listing.SortState{Key: "createdAt", Direction: listing.Desc},
		DefaultDirection: listing.Asc,
		Tiebreak:         func(t model.Transaction) string { return t.ID.String() },
		Locale:           language.English,
	}
}

// AgentSchema describes the agents table.
func AgentSchema() listing.Schema[model.Agent] {
	return listing.Schema[model.Agent]{
		SearchFields: []func(model.Agent) string{
			func(a model.Agent) string { return a.Name },
			func(a model.Agent) string { return a.Email },
			func(a model.Agent) string { return a.Phone },
		},
		Sorts: map[string]listing.SortField[model.Agent]{
			"name":      listing.ByText(func(a model.Agent) string { return a.Name }),
			"email":     listing.ByText(func(a model.Agent) string { return a.Email }),
			"role":      listing.ByText(func(a model.Agent) string { return string(a.Role) }),
			"createdAt": listing.ByTime(func(a model.Agent) time.Time { return a.CreatedAt }),
		},
		Filters: map[string]listing.Filter[model.Agent]{
			"role":     listing.Equals(func(a model.Agent) string { return string(a.Role) }),
			"isActive": listing.Equals(func(a model.Agent) string { return strconv.FormatBool(a.IsActive) }),
		},
		DefaultSort:      listing.SortState{Key: "name", Direction: listing.Asc},
		DefaultDirection: listing.Asc,
		Tiebreak:         func(a model.Agent) string { return a.ID.String() },
		Locale:           language.English,
	}
}
