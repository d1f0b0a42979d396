package model

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// DisputeCategory identifies the kind of legal dispute brought to mediation
type DisputeCategory string

const (
	CategoryWorkerEmployer         DisputeCategory = "worker_employer"
	CategoryCommercial             DisputeCategory = "commercial"
	CategoryConsumer               DisputeCategory = "consumer"
	CategoryRent                   DisputeCategory = "rent"
	CategoryNeighbor               DisputeCategory = "neighbor"
	CategoryCondominium            DisputeCategory = "condominium"
	CategoryFamily                 DisputeCategory = "family"
	CategoryPartnershipDissolution DisputeCategory = "partnership_dissolution"
	CategoryAgriculturalProduction DisputeCategory = "agricultural_production"
	CategoryOther                  DisputeCategory = "other"
)

// Week offset table keys
const (
	KeyLaborLaw               = "labor_law"
	KeyCommercialLaw          = "commercial_law"
	KeyConsumerLaw            = "consumer_law"
	KeyRentalDisputes         = "rental_disputes"
	KeyNeighborLaw            = "neighbor_law"
	KeyCondominiumLaw         = "condominium_law"
	KeyPartnershipDissolution = "partnership_dissolution"
	KeyAgriculturalProduction = "agricultural_production"

	// FallbackTableKey is used for categories without a statutory rule of their own.
	// It is intentionally absent from the default table so those categories get
	// DefaultWeekOffset unless an operator configures it.
	FallbackTableKey = "other"
)

// AllCategories returns every category in display order
func AllCategories() []DisputeCategory {
	return []DisputeCategory{
		CategoryWorkerEmployer,
		CategoryCommercial,
		CategoryConsumer,
		CategoryRent,
		CategoryNeighbor,
		CategoryCondominium,
		CategoryFamily,
		CategoryPartnershipDissolution,
		CategoryAgriculturalProduction,
		CategoryOther,
	}
}

// TableKey maps the category to its week offset table key.
// Unknown values take the fallback arm rather than failing.
func (c DisputeCategory) TableKey() string {
	switch c {
	case CategoryWorkerEmployer:
		return KeyLaborLaw
	case CategoryCommercial:
		return KeyCommercialLaw
	case CategoryConsumer:
		return KeyConsumerLaw
	case CategoryRent:
		return KeyRentalDisputes
	case CategoryNeighbor:
		return KeyNeighborLaw
	case CategoryCondominium:
		return KeyCondominiumLaw
	case CategoryPartnershipDissolution:
		return KeyPartnershipDissolution
	case CategoryAgriculturalProduction:
		return KeyAgriculturalProduction
	default:
		return FallbackTableKey
	}
}

// IsKnown reports whether c is one of AllCategories
func (c DisputeCategory) IsKnown() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// WeekOffset is the statutory period in calendar weeks, normal and extended
type WeekOffset struct {
	Normal   int `json:"normal_weeks"`
	Extended int `json:"extended_weeks"`
}

// DefaultWeekOffset substitutes for keys missing from a table
var DefaultWeekOffset = WeekOffset{Normal: 4, Extended: 5}

// Valid reports whether the pair satisfies 1 <= Normal < Extended
func (w WeekOffset) Valid() bool {
	return w.Normal >= 1 && w.Extended > w.Normal
}

// UnmarshalYAML decodes the compact "[normal, extended]" form
func (w *WeekOffset) UnmarshalYAML(node *yaml.Node) error {
	var pair []int
	if err := node.Decode(&pair); err != nil {
		return fmt.Errorf("week offset must be a [normal, extended] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("week offset must have exactly 2 values, got %d", len(pair))
	}
	w.Normal, w.Extended = pair[0], pair[1]
	return nil
}

// WeekOffsetTable maps table keys to statutory week offsets. It is read-only
// once handed to a calculation.
type WeekOffsetTable map[string]WeekOffset

// DefaultWeekOffsetTable returns a fresh copy of the built-in statutory table
func DefaultWeekOffsetTable() WeekOffsetTable {
	return WeekOffsetTable{
		KeyLaborLaw:               {Normal: 3, Extended: 4},
		KeyCommercialLaw:          {Normal: 6, Extended: 8},
		KeyConsumerLaw:            {Normal: 3, Extended: 4},
		KeyRentalDisputes:         {Normal: 3, Extended: 4},
		KeyNeighborLaw:            {Normal: 3, Extended: 4},
		KeyCondominiumLaw:         {Normal: 3, Extended: 4},
		KeyPartnershipDissolution: {Normal: 3, Extended: 4},
		KeyAgriculturalProduction: {Normal: 4, Extended: 6},
	}
}

// Lookup returns the offset for key. The second value is false when the key
// is absent and DefaultWeekOffset was substituted.
func (t WeekOffsetTable) Lookup(key string) (WeekOffset, bool) {
	if w, ok := t[key]; ok {
		return w, true
	}
	return DefaultWeekOffset, false
}

// CalculationResult is the outcome of one deadline calculation. When IsValid
// is false every other field is zero and must be ignored.
type CalculationResult struct {
	IsValid          bool
	Category         DisputeCategory
	TableKey         string
	DefaultApplied   bool
	WeekCount        int
	Deadline         time.Time
	ExtendedWeeks    int
	ExtendedDeadline time.Time
}

// LocaleSeparators is the decimal/grouping pair of a locale
type LocaleSeparators struct {
	Decimal  string `json:"decimal_separator"`
	Grouping string `json:"grouping_separator"`
}

// Common separator pairs
var (
	SeparatorsDotDecimal   = LocaleSeparators{Decimal: ".", Grouping: ","}
	SeparatorsCommaDecimal = LocaleSeparators{Decimal: ",", Grouping: "."}
)
