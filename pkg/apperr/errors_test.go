package apperr_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"plantcare/pkg/apperr"
)

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	nf := fmt.Errorf("remove: %w", apperr.NotFound("plant", "p1"))
	assert.True(t, apperr.IsNotFound(nf))
	assert.False(t, apperr.IsValidation(nf))
	assert.Equal(t, `remove: plant "p1" not found`, nf.Error())

	v := apperr.Validation("water_frequency_days", "must be greater than 0")
	assert.True(t, apperr.IsValidation(v))
	assert.Equal(t, "water_frequency_days: must be greater than 0", v.Error())

	tr := apperr.InvalidTrigger("cron", fmt.Errorf("bad field"))
	assert.True(t, apperr.IsInvalidTrigger(tr))
	assert.Contains(t, tr.Error(), "bad field")
}

func TestStorageNilPassthrough(t *testing.T) {
	assert.NoError(t, apperr.Storage("insert", nil))

	err := apperr.Storage("insert plant", fmt.Errorf("disk I/O error"))
	assert.True(t, apperr.IsStorage(err))
	assert.Contains(t, err.Error(), "insert plant")
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 200, apperr.HTTPStatus(nil))
	assert.Equal(t, 404, apperr.HTTPStatus(apperr.NotFound("reminder", "r1")))
	assert.Equal(t, 400, apperr.HTTPStatus(apperr.Validation("name", "must not be empty")))
	assert.Equal(t, 400, apperr.HTTPStatus(apperr.InvalidTrigger("after must be positive", nil)))
	assert.Equal(t, 500, apperr.HTTPStatus(apperr.Storage("list", fmt.Errorf("locked"))))
}
