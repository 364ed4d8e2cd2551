// Package test provides testing utilities for the incident backend,
// including the MongoDB test container used by the storage tests.
package test

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MongoPort is the port exposed by the MongoDB test container.
const MongoPort = "27017"

// StartMongoContainer starts a MongoDB container for testing the storage
// layer. It returns the container and any error encountered during startup.
func StartMongoContainer(ctx context.Context) (testcontainers.Container, error) {
	mongoPort := fmt.Sprintf("%s/tcp", MongoPort)
	return testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "mongo:7",
				ExposedPorts: []string{mongoPort},
				WaitingFor:   wait.ForListeningPort(MongoPort),
			},
			Started: true,
		})
}

// RandomDatabaseName returns a random database name so parallel test
// packages never share state inside the container.
func RandomDatabaseName() string {
	return fmt.Sprintf("incidenttest%d", rand.Int63())
}
