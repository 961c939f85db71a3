package ports

import "github.com/tdex-network/nft-marketplace/internal/core/domain"

const AnyTopic = "*"
const UnspecifiedTopic = ""

type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// PubSub defines the methods of a pubsub service that notifies remote
// endpoints (ie. webhooks) and keeps track of the subscriptions in an
// internal store.
type PubSub interface {
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes some client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed for
	// a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Publish publishes a message for a certain topic. All clients subscribed
	// for such topic will receive the message.
	Publish(topic string, message string) error
	// Close should be used to gracefully close the connection with the store.
	Close() error
}

// EventNotifier is notified of the activities of every committed marketplace
// operation, in the order they happened.
type EventNotifier interface {
	Notify(activities ...domain.Activity)
}
