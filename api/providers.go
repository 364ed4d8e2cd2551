package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/errors"
)

// createProviderHandler creates a new channel provider. The provider kind
// is validated by the storage layer and immutable afterwards.
func (a *API) createProviderHandler(w http.ResponseWriter, r *http.Request) {
	info := &ProviderInfo{}
	if err := json.NewDecoder(r.Body).Decode(info); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	id, err := a.db.SetProvider(&db.Provider{
		Kind:      info.Kind,
		Name:      info.Name,
		Settings:  info.Settings,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if stderrors.Is(err, db.ErrInvalidData) {
			errors.ErrInvalidProvider.WithErr(err).Write(w)
			return
		}
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &CreatedResponse{ID: id})
}

// providersHandler lists every configured provider.
func (a *API) providersHandler(w http.ResponseWriter, _ *http.Request) {
	providers, err := a.db.Providers()
	if err != nil {
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &ProvidersResponse{Providers: providers})
}

// providerHandler returns the provider with the given ID.
func (a *API) providerHandler(w http.ResponseWriter, r *http.Request) {
	provider, ok := a.providerFromRequest(w, r)
	if !ok {
		return
	}
	httpWriteJSON(w, provider)
}

// updateProviderHandler updates the name and settings of a provider. An
// attempt to change the kind is rejected.
func (a *API) updateProviderHandler(w http.ResponseWriter, r *http.Request) {
	provider, ok := a.providerFromRequest(w, r)
	if !ok {
		return
	}
	info := &ProviderInfo{}
	if err := json.NewDecoder(r.Body).Decode(info); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if info.Kind != "" && info.Kind != provider.Kind {
		errors.ErrProviderKindLocked.Write(w)
		return
	}
	provider.Name = info.Name
	provider.Settings = info.Settings
	if _, err := a.db.SetProvider(provider); err != nil {
		if stderrors.Is(err, db.ErrInvalidData) {
			errors.ErrInvalidProvider.WithErr(err).Write(w)
			return
		}
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// deleteProviderHandler removes a provider and every recipient subscribed
// to it.
func (a *API) deleteProviderHandler(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")
	if providerID == "" {
		errors.ErrMalformedURLParam.Write(w)
		return
	}
	if err := a.db.DelProvider(providerID); err != nil {
		if stderrors.Is(err, db.ErrNotFound) {
			errors.ErrProviderNotFound.Write(w)
			return
		}
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// createRecipientHandler subscribes a user to a provider. Recipient settings
// overlay the provider settings at dispatch time.
func (a *API) createRecipientHandler(w http.ResponseWriter, r *http.Request) {
	provider, ok := a.providerFromRequest(w, r)
	if !ok {
		return
	}
	info := &RecipientInfo{}
	if err := json.NewDecoder(r.Body).Decode(info); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	id, err := a.db.SetRecipient(&db.Recipient{
		ProviderID: provider.ID,
		User:       info.User,
		Settings:   info.Settings,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		if stderrors.Is(err, db.ErrInvalidData) {
			errors.ErrInvalidRecipient.WithErr(err).Write(w)
			return
		}
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &CreatedResponse{ID: id})
}

// recipientsHandler lists the recipients subscribed to a provider.
func (a *API) recipientsHandler(w http.ResponseWriter, r *http.Request) {
	provider, ok := a.providerFromRequest(w, r)
	if !ok {
		return
	}
	recipients, err := a.db.RecipientsByProvider(provider.ID)
	if err != nil {
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &RecipientsResponse{Recipients: recipients})
}

// recipientHandler returns the recipient with the given ID.
func (a *API) recipientHandler(w http.ResponseWriter, r *http.Request) {
	recipient, ok := a.recipientFromRequest(w, r)
	if !ok {
		return
	}
	httpWriteJSON(w, recipient)
}

// updateRecipientHandler updates the user reference and settings of a
// recipient.
func (a *API) updateRecipientHandler(w http.ResponseWriter, r *http.Request) {
	recipient, ok := a.recipientFromRequest(w, r)
	if !ok {
		return
	}
	info := &RecipientInfo{}
	if err := json.NewDecoder(r.Body).Decode(info); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	recipient.User = info.User
	recipient.Settings = info.Settings
	if _, err := a.db.SetRecipient(recipient); err != nil {
		if stderrors.Is(err, db.ErrInvalidData) {
			errors.ErrInvalidRecipient.WithErr(err).Write(w)
			return
		}
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// deleteRecipientHandler unsubscribes a recipient.
func (a *API) deleteRecipientHandler(w http.ResponseWriter, r *http.Request) {
	recipientID := chi.URLParam(r, "recipientID")
	if recipientID == "" {
		errors.ErrMalformedURLParam.Write(w)
		return
	}
	if err := a.db.DelRecipient(recipientID); err != nil {
		if stderrors.Is(err, db.ErrNotFound) {
			errors.ErrRecipientNotFound.Write(w)
			return
		}
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// providerFromRequest resolves the provider referenced by the URL and
// writes the error response itself when it cannot.
func (a *API) providerFromRequest(w http.ResponseWriter, r *http.Request) (*db.Provider, bool) {
	providerID := chi.URLParam(r, "providerID")
	if providerID == "" {
		errors.ErrMalformedURLParam.Write(w)
		return nil, false
	}
	provider, err := a.db.Provider(providerID)
	if err != nil {
		if stderrors.Is(err, db.ErrNotFound) {
			errors.ErrProviderNotFound.Write(w)
			return nil, false
		}
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return nil, false
	}
	return provider, true
}

func (a *API) recipientFromRequest(w http.ResponseWriter, r *http.Request) (*db.Recipient, bool) {
	recipientID := chi.URLParam(r, "recipientID")
	if recipientID == "" {
		errors.ErrMalformedURLParam.Write(w)
		return nil, false
	}
	recipient, err := a.db.Recipient(recipientID)
	if err != nil {
		if stderrors.Is(err, db.ErrNotFound) {
			errors.ErrRecipientNotFound.Write(w)
			return nil, false
		}
		errors.ErrStorageFailure.WithErr(err).Write(w)
		return nil, false
	}
	return recipient, true
}
