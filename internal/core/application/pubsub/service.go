package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
	"github.com/thanhpk/randstr"
)

const (
	// secretLength is the number of random bytes of a generated secret.
	secretLength       = 32
	listenerBufferSize = 64
)

// Service manages the webhooks and dispatches the marketplace activities to
// them and to the local stream listeners.
type Service struct {
	pubsub ports.PubSub

	lock      *sync.RWMutex
	listeners map[int]chan domain.Activity
	nextID    int
	wg        *sync.WaitGroup
}

func NewService(pubsub ports.PubSub) (*Service, error) {
	if pubsub == nil {
		return nil, fmt.Errorf("missing pubsub")
	}
	return &Service{
		pubsub:    pubsub,
		lock:      &sync.RWMutex{},
		listeners: make(map[int]chan domain.Activity),
		wg:        &sync.WaitGroup{},
	}, nil
}

// AddWebhook registers a webhook for the given event, or for any event if
// the wildcard is used. If requested, a random secret is generated in place
// of the given one.
func (s *Service) AddWebhook(_ context.Context, req AddWebhookRequest) (*Webhook, error) {
	if err := validateEvent(req.Event); err != nil {
		return nil, err
	}

	secret := req.Secret
	if req.GenerateSecret {
		secret = randstr.Hex(secretLength)
	}

	id, err := s.pubsub.Subscribe(req.Event, req.Endpoint, secret)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"id":       id,
		"event":    req.Event,
		"endpoint": req.Endpoint,
	}).Info("added webhook")

	return &Webhook{
		ID:        id,
		Event:     req.Event,
		Endpoint:  req.Endpoint,
		Secret:    secret,
		IsSecured: len(secret) > 0,
	}, nil
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	if err := s.pubsub.Unsubscribe(ports.UnspecifiedTopic, id); err != nil {
		return err
	}
	log.WithField("id", id).Info("removed webhook")
	return nil
}

// ListWebhooks returns the webhooks notified for the given event, including
// those subscribed to any event. An empty event lists all of them.
func (s *Service) ListWebhooks(_ context.Context, event string) ([]Webhook, error) {
	if event != ports.UnspecifiedTopic {
		if err := validateEvent(event); err != nil {
			return nil, err
		}
	}

	subs := s.pubsub.ListSubscriptionsForTopic(event)
	webhooks := make([]Webhook, 0, len(subs))
	for _, sub := range subs {
		webhooks = append(webhooks, Webhook{
			ID:        sub.Id(),
			Event:     sub.Topic(),
			Endpoint:  sub.NotifyAt(),
			IsSecured: sub.IsSecured(),
		})
	}
	return webhooks, nil
}

// Notify forwards the given activities to the stream listeners and publishes
// them to the webhooks in background. A slow listener misses the activities
// that do not fit its buffer.
func (s *Service) Notify(activities ...domain.Activity) {
	s.lock.RLock()
	for id, ch := range s.listeners {
		for _, a := range activities {
			select {
			case ch <- a:
			default:
				log.WithField("listener", id).Warn("stream listener is lagging behind, dropping event")
			}
		}
	}
	s.lock.RUnlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for _, a := range activities {
			if err := s.publish(a); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"event": a.Type.String(),
					"id":    a.ID,
				}).Warn("failed to notify webhooks")
			}
		}
	}()
}

// Listen returns a channel where every notified activity is sent, and a
// function to stop listening.
func (s *Service) Listen() (<-chan domain.Activity, func()) {
	s.lock.Lock()
	defer s.lock.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan domain.Activity, listenerBufferSize)
	s.listeners[id] = ch

	var once sync.Once
	stop := func() {
		once.Do(func() {
			s.lock.Lock()
			defer s.lock.Unlock()
			// Close may have closed the channel already.
			if _, ok := s.listeners[id]; !ok {
				return
			}
			delete(s.listeners, id)
			close(ch)
		})
	}
	return ch, stop
}

// Close waits for the pending notifications, stops all listeners and closes
// the underlying pubsub.
func (s *Service) Close() {
	s.wg.Wait()

	s.lock.Lock()
	for id, ch := range s.listeners {
		delete(s.listeners, id)
		close(ch)
	}
	s.lock.Unlock()

	if err := s.pubsub.Close(); err != nil {
		log.WithError(err).Warn("failed to close pubsub")
	}
}

func (s *Service) publish(activity domain.Activity) error {
	topic := activity.Type.String()
	message, err := json.Marshal(newActivityPayload(activity))
	if err != nil {
		return err
	}
	return s.pubsub.Publish(topic, string(message))
}

func validateEvent(event string) error {
	if event == ports.AnyTopic {
		return nil
	}
	if _, ok := domain.ActivityTypeFromString(event); !ok {
		return ErrInvalidEvent
	}
	return nil
}
