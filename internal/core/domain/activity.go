package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActivityTypeUnspecified ActivityType = iota
	ActivityTypeItemListed
	ActivityTypeItemCanceled
	ActivityTypeItemBought
	ActivityTypeProceedsWithdrawn
)

var activityTypeToString = map[ActivityType]string{
	ActivityTypeUnspecified:       "UNSPECIFIED",
	ActivityTypeItemListed:        "ITEM_LISTED",
	ActivityTypeItemCanceled:      "ITEM_CANCELED",
	ActivityTypeItemBought:        "ITEM_BOUGHT",
	ActivityTypeProceedsWithdrawn: "PROCEEDS_WITHDRAWN",
}

type ActivityType int

func (t ActivityType) String() string {
	if s, ok := activityTypeToString[t]; ok {
		return s
	}
	return activityTypeToString[ActivityTypeUnspecified]
}

// ActivityTypeFromString returns the activity type for the given label.
func ActivityTypeFromString(str string) (ActivityType, bool) {
	for t, s := range activityTypeToString {
		if s == str {
			return t, t != ActivityTypeUnspecified
		}
	}
	return ActivityTypeUnspecified, false
}

// Activity is the notification emitted for every committed marketplace
// operation. Updates of a listing are recorded as ItemListed, identically to
// fresh listings.
type Activity struct {
	ID        string
	Type      ActivityType
	Key       AssetKey
	Seller    Address
	Buyer     Address
	Price     uint64
	Timestamp int64
}

func newActivity(t ActivityType) Activity {
	return Activity{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now().Unix(),
	}
}

// NewItemListedActivity is emitted when an asset is listed or its listing is
// updated.
func NewItemListedActivity(listing Listing) Activity {
	a := newActivity(ActivityTypeItemListed)
	a.Key = listing.Key
	a.Seller = listing.Seller
	a.Price = listing.Price
	return a
}

func NewItemCanceledActivity(listing Listing) Activity {
	a := newActivity(ActivityTypeItemCanceled)
	a.Key = listing.Key
	a.Seller = listing.Seller
	return a
}

// NewItemBoughtActivity carries the amount actually credited to the seller.
func NewItemBoughtActivity(listing Listing, buyer Address, amount uint64) Activity {
	a := newActivity(ActivityTypeItemBought)
	a.Key = listing.Key
	a.Seller = listing.Seller
	a.Buyer = buyer
	a.Price = amount
	return a
}

func NewProceedsWithdrawnActivity(owner Address, amount uint64) Activity {
	a := newActivity(ActivityTypeProceedsWithdrawn)
	a.Seller = owner
	a.Price = amount
	return a
}

func (a Activity) IsItemListed() bool {
	return a.Type == ActivityTypeItemListed
}

func (a Activity) IsItemCanceled() bool {
	return a.Type == ActivityTypeItemCanceled
}

func (a Activity) IsItemBought() bool {
	return a.Type == ActivityTypeItemBought
}

func (a Activity) IsProceedsWithdrawn() bool {
	return a.Type == ActivityTypeProceedsWithdrawn
}
