package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opencart/opencart-gobackend/internal/apperrors"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", apperrors.Invalid("amount", "must be positive"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("initiate: %w", apperrors.Invalid("phone", "bad")), http.StatusBadRequest},
		{"adapter", &apperrors.AdapterError{Provider: "mpesa", Op: "stk push", Err: errors.New("timeout")}, http.StatusBadGateway},
		{"persistence", &apperrors.PersistenceError{Op: "create", Err: errors.New("down")}, http.StatusInternalServerError},
		{"not found", fmt.Errorf("lookup: %w", apperrors.ErrNotFound), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.HTTPStatus(tt.err))
		})
	}
}

func TestPersistenceErrorUnwrap(t *testing.T) {
	err := &apperrors.PersistenceError{Op: "create", CorrelationID: "cr1", Err: apperrors.ErrDuplicate}
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.True(t, apperrors.IsPersistence(err))
	assert.False(t, apperrors.IsAdapter(err))
	assert.Equal(t, "create cr1: duplicate correlation id", err.Error())
}
