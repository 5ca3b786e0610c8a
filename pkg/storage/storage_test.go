package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPicture(t *testing.T) {
	assert.NoError(t, CheckPicture("image/png", 1024))
	assert.NoError(t, CheckPicture("IMAGE/JPEG", MaxPictureSize))
	assert.ErrorIs(t, CheckPicture("image/png", MaxPictureSize+1), ErrTooLarge)
	assert.ErrorIs(t, CheckPicture("application/pdf", 10), ErrTypeNotAllowed)
}

func TestObjectName(t *testing.T) {
	a := ObjectName("/events/", "Party.JPG")
	b := ObjectName("events", "Party.JPG")

	assert.True(t, strings.HasPrefix(a, "events/"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.NotEqual(t, a, b)
}
