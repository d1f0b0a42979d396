package service

import (
	"sync"
	"time"

	"github.com/ozcotech/denklem/backend/model"
)

const daysPerWeek = 7

// Calculate computes the normal and extended mediation deadlines for category
// starting at start. Periods are whole calendar weeks with no business-day or
// holiday adjustment. A zero start date yields an invalid result.
func Calculate(category model.DisputeCategory, start time.Time, table model.WeekOffsetTable) model.CalculationResult {
	if start.IsZero() {
		return model.CalculationResult{}
	}

	key := category.TableKey()
	offset, found := table.Lookup(key)

	return model.CalculationResult{
		IsValid:          true,
		Category:         category,
		TableKey:         key,
		DefaultApplied:   !found,
		WeekCount:        offset.Normal,
		Deadline:         addWeeks(start, offset.Normal),
		ExtendedWeeks:    offset.Extended,
		ExtendedDeadline: addWeeks(start, offset.Extended),
	}
}

// addWeeks adds calendar days through AddDate so the wall clock, not the
// elapsed duration, is preserved across DST changes.
func addWeeks(t time.Time, weeks int) time.Time {
	return t.AddDate(0, 0, weeks*daysPerWeek)
}

// CalculateAll runs Calculate for each category in order, dropping invalid
// results. A nil or empty list means every category.
func CalculateAll(categories []model.DisputeCategory, start time.Time, table model.WeekOffsetTable) []model.CalculationResult {
	if len(categories) == 0 {
		categories = model.AllCategories()
	}

	results := make([]model.CalculationResult, 0, len(categories))
	for _, category := range categories {
		result := Calculate(category, start, table)
		if !result.IsValid {
			continue
		}
		results = append(results, result)
	}
	return results
}

// Calculator holds a category and start date between calls. Calculate on a
// Calculator returns exactly what the package-level Calculate returns for the
// same three inputs.
type Calculator struct {
	mu        sync.RWMutex
	category  model.DisputeCategory
	startDate time.Time
	table     model.WeekOffsetTable
}

// NewCalculator creates a calculator bound to table
func NewCalculator(table model.WeekOffsetTable) *Calculator {
	return &Calculator{table: table}
}

func (c *Calculator) UpdateCategory(category model.DisputeCategory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.category = category
}

func (c *Calculator) UpdateStartDate(date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startDate = date
}

// Category returns the current category
func (c *Calculator) Category() model.DisputeCategory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.category
}

// StartDate returns the current start date
func (c *Calculator) StartDate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.startDate
}

func (c *Calculator) Calculate() model.CalculationResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Calculate(c.category, c.startDate, c.table)
}
