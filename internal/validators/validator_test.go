package validators

import (
	"net/http"
	"testing"

	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.LoginRequest{Email: "a@b.com", Password: "secret"}))

	err := v.Validate(&models.LoginRequest{Email: "not-an-email", Password: "secret"})
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)

	assert.Error(t, v.Validate(&models.CreateReportRequest{
		ReporterID: "u", ReporterName: "n", TargetEventID: "e", EventTitle: "t", Reason: "Boring",
	}))
}
