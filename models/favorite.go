package models

import (
	"encoding/json"
	"time"
)

// PendingFavoriteID marks an optimistic local favorite the store has not
// confirmed yet. It is replaced by the store-assigned id on success.
const PendingFavoriteID int64 = -1

// Favorite is a saved reference from a user to a car item. (UserID, CarID)
// is unique in the store; CarID is the derived identity from the identity
// package. Data carries the full item payload and is opaque to the store.
type Favorite struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"userId"`
	CarID     string          `json:"carId"`
	IsNew     bool            `json:"isNew"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`

	// Link health, maintained by the linkcheck worker for used-car
	// favorites. Nil until first checked.
	LinkOK        *bool      `json:"linkOk,omitempty"`
	LastCheckedAt *time.Time `json:"lastCheckedAt,omitempty"`
}

// Pending reports whether the favorite is still awaiting store confirmation.
func (f *Favorite) Pending() bool {
	return f.ID == PendingFavoriteID
}

// UsedListing decodes the payload of a used-car favorite. Returns nil for
// new-car favorites or undecodable payloads.
func (f *Favorite) UsedListing() *UsedCarListing {
	if f.IsNew {
		return nil
	}
	var l UsedCarListing
	if err := json.Unmarshal(f.Data, &l); err != nil {
		return nil
	}
	return &l
}
