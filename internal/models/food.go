package models

import "time"

// FoodItem is an active inventory entry.
type FoodItem struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Quantity        float64   `json:"quantity"`
	Unit            string    `json:"unit"`
	StorageLocation string    `json:"storageLocation"`
	DateAdded       string    `json:"dateAdded"`
	ExpiryDate      string    `json:"expiryDate"`
	Notes           string    `json:"notes,omitempty"`
	AddedTimestamp  time.Time `json:"addedTimestamp"`
}

// UsedItem is a food item moved to the used history. Immutable once created.
type UsedItem struct {
	FoodItem
	UsedTimestamp time.Time `json:"usedTimestamp"`
}

type ExpiryStatus string

const (
	ExpiryFresh    ExpiryStatus = "fresh"
	ExpiryExpiring ExpiryStatus = "expiring"
	ExpiryExpired  ExpiryStatus = "expired"
)

// WasteItem is one line of the carbon calculator waste list.
type WasteItem struct {
	FoodType  string  `json:"foodType"`
	Quantity  float64 `json:"quantity"`
	Emissions float64 `json:"emissions"`
}
