package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Incident method returns the incident with the given ID. If the incident
// doesn't exist, it returns a specific error. If other errors occur, it
// returns the error.
func (ms *MongoStorage) Incident(id string) (*Incident, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	result := ms.incidents.FindOne(ctx, bson.M{"_id": id})
	incident := &Incident{}
	if err := result.Decode(incident); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return incident, nil
}

// SetIncident method creates or updates the incident in the database. New
// incidents default to the open status.
func (ms *MongoStorage) SetIncident(incident *Incident) (string, error) {
	if incident.Subject == "" {
		return "", fmt.Errorf("%w: incident subject is required", ErrInvalidData)
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	now := time.Now()
	if incident.ID == "" {
		incident.ID = primitive.NewObjectID().Hex()
		if incident.Status == "" {
			incident.Status = IncidentStatusOpen
		}
		incident.CreatedAt = now
		incident.UpdatedAt = now
		if _, err := ms.incidents.InsertOne(ctx, incident); err != nil {
			return "", err
		}
		return incident.ID, nil
	}
	if !IsIncidentStatusValid(string(incident.Status)) {
		return "", fmt.Errorf("%w: unknown incident status %q", ErrInvalidData, incident.Status)
	}
	updateDoc := bson.M{"$set": bson.M{
		"subject":   incident.Subject,
		"status":    incident.Status,
		"updatedAt": now,
	}}
	res, err := ms.incidents.UpdateOne(ctx, bson.M{"_id": incident.ID}, updateDoc)
	if err != nil {
		return "", err
	}
	if res.MatchedCount == 0 {
		return "", ErrNotFound
	}
	return incident.ID, nil
}

// SetIncidentStatus method updates only the status of the incident.
func (ms *MongoStorage) SetIncidentStatus(id string, status IncidentStatus) error {
	if !IsIncidentStatusValid(string(status)) {
		return fmt.Errorf("%w: unknown incident status %q", ErrInvalidData, status)
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	updateDoc := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := ms.incidents.UpdateOne(ctx, bson.M{"_id": id}, updateDoc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Event method returns the event with the given ID.
func (ms *MongoStorage) Event(id string) (*Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	result := ms.events.FindOne(ctx, bson.M{"_id": id})
	event := &Event{}
	if err := result.Decode(event); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

// EventsByIncident method returns the events of the incident in insertion
// order. The incident's history is append-only, so this is also the audit
// trail.
func (ms *MongoStorage) EventsByIncident(incidentID string) ([]*Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := ms.events.Find(ctx, bson.M{"incidentId": incidentID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	var events []*Event
	for cur.Next(ctx) {
		event := &Event{}
		if err := cur.Decode(event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, cur.Err()
}

// AddEvent method appends an event to its incident's history. Events are
// immutable once created; there is no update counterpart. Each append is a
// single independent insert, so concurrent dispatches to the same incident
// never race on a read-modify-write.
func (ms *MongoStorage) AddEvent(event *Event) (string, error) {
	if event.IncidentID == "" {
		return "", fmt.Errorf("%w: event incident reference is required", ErrInvalidData)
	}
	if event.Kind != EventKindNotified && !IsEventKindValid(string(event.Kind)) {
		return "", fmt.Errorf("%w: unknown event kind %q", ErrInvalidData, event.Kind)
	}
	if event.EscalatedTo != "" && event.Kind != EventKindEscalated {
		return "", fmt.Errorf("%w: escalatedTo is only valid on escalated events", ErrInvalidData)
	}
	if _, err := ms.Incident(event.IncidentID); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	event.ID = primitive.NewObjectID().Hex()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if _, err := ms.events.InsertOne(ctx, event); err != nil {
		return "", err
	}
	return event.ID, nil
}
