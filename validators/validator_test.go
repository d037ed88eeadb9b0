package validators

import (
	"testing"

	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(models.CreatePostRequest{Title: "t", Content: "c"}))

	err := v.Validate(models.CreatePostRequest{Title: "   ", Content: "c"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "notblank", verrs[0].Tag())

	blank := "  "
	assert.Error(t, v.Validate(models.UpdatePostRequest{Content: &blank}))
	assert.NoError(t, v.Validate(models.UpdatePostRequest{}))

	assert.Error(t, v.Validate(models.CreateUserRequest{Username: "al", Password: "password123"}))
	assert.Error(t, v.Validate(models.CreateUserRequest{Username: "alice", Email: "nope", Password: "password123"}))
	assert.NoError(t, v.Validate(models.CreateUserRequest{Username: "alice", Password: "password123"}))
	assert.Error(t, v.Validate(models.LikeRequest{}))
}
