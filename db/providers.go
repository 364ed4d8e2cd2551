package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Provider method returns the provider with the given ID. If the provider
// doesn't exist, it returns a specific error. If other errors occur, it
// returns the error.
func (ms *MongoStorage) Provider(id string) (*Provider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	result := ms.providers.FindOne(ctx, bson.M{"_id": id})
	provider := &Provider{}
	if err := result.Decode(provider); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return provider, nil
}

// Providers method returns every configured provider.
func (ms *MongoStorage) Providers() ([]*Provider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	cur, err := ms.providers.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	var providers []*Provider
	for cur.Next(ctx) {
		provider := &Provider{}
		if err := cur.Decode(provider); err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}
	return providers, cur.Err()
}

// SetProvider method creates or updates the provider in the database. The
// provider kind is validated here so an unknown kind fails at creation and
// never reaches dispatch. On updates, the stored kind is immutable.
func (ms *MongoStorage) SetProvider(provider *Provider) (string, error) {
	if !IsProviderKindValid(string(provider.Kind)) {
		return "", fmt.Errorf("%w: unknown provider kind %q", ErrInvalidData, provider.Kind)
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if provider.ID == "" {
		provider.ID = primitive.NewObjectID().Hex()
		if _, err := ms.providers.InsertOne(ctx, provider); err != nil {
			return "", err
		}
		return provider.ID, nil
	}
	// the kind of an existing provider never changes
	current, err := ms.Provider(provider.ID)
	if err != nil {
		return "", err
	}
	if current.Kind != provider.Kind {
		return "", fmt.Errorf("%w: provider kind is immutable", ErrInvalidData)
	}
	updateDoc := bson.M{"$set": bson.M{
		"name":     provider.Name,
		"settings": provider.Settings,
	}}
	if _, err := ms.providers.UpdateOne(ctx, bson.M{"_id": provider.ID}, updateDoc); err != nil {
		return "", err
	}
	return provider.ID, nil
}

// DelProvider method removes the provider and its recipients.
func (ms *MongoStorage) DelProvider(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if _, err := ms.recipients.DeleteMany(ctx, bson.M{"providerId": id}); err != nil {
		return err
	}
	res, err := ms.providers.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Recipient method returns the recipient with the given ID.
func (ms *MongoStorage) Recipient(id string) (*Recipient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	result := ms.recipients.FindOne(ctx, bson.M{"_id": id})
	recipient := &Recipient{}
	if err := result.Decode(recipient); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return recipient, nil
}

// RecipientsByProvider method returns the recipients subscribed to the
// provider with the given ID.
func (ms *MongoStorage) RecipientsByProvider(providerID string) ([]*Recipient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	cur, err := ms.recipients.Find(ctx, bson.M{"providerId": providerID})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	var recipients []*Recipient
	for cur.Next(ctx) {
		recipient := &Recipient{}
		if err := cur.Decode(recipient); err != nil {
			return nil, err
		}
		recipients = append(recipients, recipient)
	}
	return recipients, cur.Err()
}

// SetRecipient method creates or updates the recipient in the database. The
// referenced provider must exist and carry a user reference.
func (ms *MongoStorage) SetRecipient(recipient *Recipient) (string, error) {
	if recipient.User == "" {
		return "", fmt.Errorf("%w: recipient user is required", ErrInvalidData)
	}
	if _, err := ms.Provider(recipient.ProviderID); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if recipient.ID == "" {
		recipient.ID = primitive.NewObjectID().Hex()
		if _, err := ms.recipients.InsertOne(ctx, recipient); err != nil {
			return "", err
		}
		return recipient.ID, nil
	}
	updateDoc := bson.M{"$set": bson.M{
		"user":     recipient.User,
		"settings": recipient.Settings,
	}}
	res, err := ms.recipients.UpdateOne(ctx, bson.M{"_id": recipient.ID}, updateDoc)
	if err != nil {
		return "", err
	}
	if res.MatchedCount == 0 {
		return "", ErrNotFound
	}
	return recipient.ID, nil
}

// DelRecipient method removes the recipient with the given ID.
func (ms *MongoStorage) DelRecipient(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	res, err := ms.recipients.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
