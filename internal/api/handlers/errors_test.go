package handlers

import (
	"net/http"
	"testing"

	"mortality-valuation/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		kind model.ErrorKind
		want int
	}{
		{model.KindConfiguration, http.StatusBadRequest},
		{model.KindInputData, http.StatusBadRequest},
		{model.KindDivergence, http.StatusUnprocessableEntity},
		{model.KindDomain, http.StatusUnprocessableEntity},
		{model.ErrorKind("OTHER"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.kind), string(tc.kind))
	}
}
