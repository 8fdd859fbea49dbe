package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/capsql/internal/core/services"
)

func TestPorts_Validate(t *testing.T) {
	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrMissingDatabaseService)
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingDatabaseService)
	assert.NoError(t, (&Ports{Database: services.NewSessionManager(nil, nil)}).Validate())
}
