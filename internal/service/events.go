package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Event types published after a log is written
const (
	EventMealLogged    = "meal.logged"
	EventWorkoutLogged = "workout.logged"
)

// MealLoggedEvent is published when a meal is logged
type MealLoggedEvent struct {
	Type          string    `json:"type"`
	UserID        uuid.UUID `json:"user_id"`
	MealID        uuid.UUID `json:"meal_id"`
	Name          string    `json:"name"`
	TotalCalories int       `json:"total_calories"`
	LoggedAt      time.Time `json:"logged_at"`
}

// WorkoutLoggedEvent is published when a workout is logged
type WorkoutLoggedEvent struct {
	Type          string    `json:"type"`
	UserID        uuid.UUID `json:"user_id"`
	WorkoutID     uuid.UUID `json:"workout_id"`
	Name          string    `json:"name"`
	TotalDuration int       `json:"total_duration"`
	BodyParts     []string  `json:"body_parts"`
	LoggedAt      time.Time `json:"logged_at"`
}

// EventPublisher delivers log events to interested consumers
type EventPublisher interface {
	Publish(ctx context.Context, event interface{}) error
}

// AMQPPublisher sends events to a durable RabbitMQ queue
type AMQPPublisher struct {
	url   string
	queue string
}

// NewAMQPPublisher creates a new AMQPPublisher
func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue}
}

// Publish opens a connection, declares the queue and sends event as persistent JSON
func (p *AMQPPublisher) Publish(ctx context.Context, event interface{}) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(p.queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = ch.PublishWithContext(ctx, "", q.Name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	log.Printf("[Events] Published %s to %s", eventType(event), q.Name)
	return nil
}

// LogPublisher only logs events. It is used when no broker is configured.
type LogPublisher struct{}

// Publish logs the event
func (LogPublisher) Publish(_ context.Context, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	log.Printf("[Events] %s %s", eventType(event), body)
	return nil
}

func eventType(event interface{}) string {
	switch e := event.(type) {
	case *MealLoggedEvent:
		return e.Type
	case *WorkoutLoggedEvent:
		return e.Type
	default:
		return fmt.Sprintf("%T", event)
	}
}
