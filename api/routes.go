package api

const (
	// health routes

	// GET /ping to check the server is up
	pingEndpoint = "/ping"

	// provider routes

	// POST /providers to create a new provider
	// GET /providers to list all providers
	providersEndpoint = "/providers"
	// GET /providers/{providerID} to get a provider
	// PUT /providers/{providerID} to update a provider
	// DELETE /providers/{providerID} to delete a provider and its recipients
	providerEndpoint = "/providers/{providerID}"
	// POST /providers/{providerID}/recipients to subscribe a recipient
	// GET /providers/{providerID}/recipients to list the provider recipients
	providerRecipientsEndpoint = "/providers/{providerID}/recipients"

	// recipient routes

	// GET /recipients/{recipientID} to get a recipient
	// PUT /recipients/{recipientID} to update a recipient
	// DELETE /recipients/{recipientID} to unsubscribe a recipient
	recipientEndpoint = "/recipients/{recipientID}"

	// incident routes

	// POST /incidents to create a new incident
	incidentsEndpoint = "/incidents"
	// GET /incidents/{incidentID} to get an incident
	incidentEndpoint = "/incidents/{incidentID}"
	// POST /incidents/{incidentID}/events to append an event and dispatch it
	// GET /incidents/{incidentID}/events to read the incident history
	incidentEventsEndpoint = "/incidents/{incidentID}/events"
)
