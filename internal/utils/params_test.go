package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawat-dev/dawat/internal/middleware"
	"github.com/dawat-dev/dawat/internal/types"
)

func testContext(t *testing.T) *gin.Context {
	t.Helper()

	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	return ctx
}

func TestIDParam(t *testing.T) {
	ctx := testContext(t)
	ctx.Params = gin.Params{{Key: "block_id", Value: "12"}}

	id, err := IDParam(ctx, "block_id")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)
}

func TestIDParamInvalid(t *testing.T) {
	ctx := testContext(t)
	ctx.Params = gin.Params{{Key: "block_id", Value: "twelve"}}

	_, err := IDParam(ctx, "block_id")
	assert.Error(t, err)

	_, err = IDParam(ctx, "contact_id")
	assert.Error(t, err)
}

func TestGetCurrentUser(t *testing.T) {
	ctx := testContext(t)

	_, err := GetCurrentUser(ctx)
	assert.Error(t, err)

	ctx.Set(types.ContextUserKey, middleware.AuthenticatedUser{ID: 7, Username: "asim"})

	user, err := GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "asim", user.Username)

	id, err := GetCurrentUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
}
