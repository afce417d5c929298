// Package carbon estimates the CO2 footprint of wasted food and tracks the
// emissions the user avoided.
package carbon

import (
	"fmt"
	"strings"

	"github.com/tranaapp/trana/internal/constants"
	apperrors "github.com/tranaapp/trana/internal/errors"
	"github.com/tranaapp/trana/internal/events"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/state"
)

type BadgeEvaluator interface {
	Evaluate(models.BadgeCategory, models.Counters) ([]models.BadgeDefinition, error)
}

// Equivalents expresses an amount of CO2 in everyday terms.
type Equivalents struct {
	EmissionsKg   float64
	CarKm         float64
	HomePowerDays float64
}

func EquivalentsFor(kg float64) Equivalents {
	return Equivalents{
		EmissionsKg:   kg,
		CarKm:         kg * constants.CarKmPerKgCO2,
		HomePowerDays: kg * constants.HomePowerDaysPerKgCO2,
	}
}

type Calculator struct {
	store  *state.Store
	badges BadgeEvaluator
	bus    *events.Bus

	waste        []models.WasteItem
	savings      float64
	calculations int
}

func New(store *state.Store, evaluator BadgeEvaluator, bus *events.Bus) *Calculator {
	c := &Calculator{store: store, badges: evaluator, bus: bus}
	c.Load()
	return c
}

func (c *Calculator) Load() {
	c.waste = state.Load(c.store, constants.KeyWasteItems, []models.WasteItem{})
	c.savings = state.Load(c.store, constants.KeyCarbonSavings, 0.0)
	c.calculations = state.Load(c.store, constants.KeyCarbonCalculations, 0)
}

func (c *Calculator) Persist() error {
	if err := c.store.Save(constants.KeyWasteItems, c.waste); err != nil {
		return fmt.Errorf("failed to save waste list: %w", err)
	}
	if err := c.store.Save(constants.KeyCarbonSavings, c.savings); err != nil {
		return fmt.Errorf("failed to save carbon savings: %w", err)
	}
	if err := c.store.Save(constants.KeyCarbonCalculations, c.calculations); err != nil {
		return fmt.Errorf("failed to save calculation count: %w", err)
	}
	c.bus.PublishChange(c.store.Key(constants.KeyWasteItems))
	return nil
}

func (c *Calculator) Counters() models.Counters {
	return models.Counters{
		models.MetricCarbonCalculations:    float64(c.calculations),
		models.MetricTotalSavedEmissionsKg: c.savings,
	}
}

func (c *Calculator) evaluate() ([]models.BadgeDefinition, error) {
	if c.badges == nil {
		return nil, nil
	}
	return c.badges.Evaluate(models.CategoryCarbon, c.Counters())
}

// Emissions validates the input and returns kg CO2 for quantity kg of foodType.
func Emissions(foodType string, quantity float64) (float64, error) {
	foodType = strings.ToLower(strings.TrimSpace(foodType))
	if foodType == "" {
		return 0, apperrors.Validation("foodType", "please select a food type")
	}
	factor, ok := Factors[foodType]
	if !ok {
		return 0, apperrors.Validation("foodType", fmt.Sprintf("unknown food type %q (known: %s)", foodType, strings.Join(FoodTypes(), ", ")))
	}
	if quantity <= 0 {
		return 0, apperrors.Validation("quantity", "please enter a valid quantity")
	}
	return factor * quantity, nil
}

// Calculate computes a single item's footprint and counts the calculation.
func (c *Calculator) Calculate(foodType string, quantity float64) (Equivalents, []models.BadgeDefinition, error) {
	kg, err := Emissions(foodType, quantity)
	if err != nil {
		return Equivalents{}, nil, err
	}
	c.calculations++
	if err := c.Persist(); err != nil {
		c.calculations--
		return Equivalents{}, nil, err
	}
	unlocked, err := c.evaluate()
	return EquivalentsFor(kg), unlocked, err
}

// AddWaste appends an item to the waste list.
func (c *Calculator) AddWaste(foodType string, quantity float64) (models.WasteItem, error) {
	kg, err := Emissions(foodType, quantity)
	if err != nil {
		return models.WasteItem{}, err
	}
	item := models.WasteItem{
		FoodType:  strings.ToLower(strings.TrimSpace(foodType)),
		Quantity:  quantity,
		Emissions: kg,
	}
	c.waste = append(c.waste, item)
	if err := c.Persist(); err != nil {
		c.waste = c.waste[:len(c.waste)-1]
		return models.WasteItem{}, err
	}
	return item, nil
}

// RemoveWaste drops the item at index. Out-of-range indexes are a validation error.
func (c *Calculator) RemoveWaste(index int) (models.WasteItem, error) {
	if index < 0 || index >= len(c.waste) {
		return models.WasteItem{}, apperrors.Validation("index", fmt.Sprintf("no waste item at position %d", index+1))
	}
	removed := c.waste[index]
	prev := c.waste
	c.waste = append(append([]models.WasteItem{}, c.waste[:index]...), c.waste[index+1:]...)
	if err := c.Persist(); err != nil {
		c.waste = prev
		return models.WasteItem{}, err
	}
	return removed, nil
}

func (c *Calculator) Waste() []models.WasteItem {
	out := make([]models.WasteItem, len(c.waste))
	copy(out, c.waste)
	return out
}

// Total sums the waste list.
func (c *Calculator) Total() Equivalents {
	var kg float64
	for _, w := range c.waste {
		kg += w.Emissions
	}
	return EquivalentsFor(kg)
}

// RecordSavings adds the waste list total to the cumulative savings, clears
// the list and counts a calculation.
func (c *Calculator) RecordSavings() (Equivalents, []models.BadgeDefinition, error) {
	if len(c.waste) == 0 {
		return Equivalents{}, nil, apperrors.Validation("", "please add food items to your waste list first")
	}
	total := c.Total()

	prevWaste, prevSavings := c.waste, c.savings
	c.savings += total.EmissionsKg
	c.waste = []models.WasteItem{}
	c.calculations++
	if err := c.Persist(); err != nil {
		c.waste, c.savings = prevWaste, prevSavings
		c.calculations--
		return Equivalents{}, nil, err
	}
	unlocked, err := c.evaluate()
	return total, unlocked, err
}

func (c *Calculator) Savings() Equivalents {
	return EquivalentsFor(c.savings)
}

func (c *Calculator) Calculations() int {
	return c.calculations
}
