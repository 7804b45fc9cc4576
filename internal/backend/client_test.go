package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientApply(t *testing.T) {
	var gotPath, gotExpr string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req applyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotExpr = req.Expression
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.Apply(context.Background(), "=SUM(Revenue, Cost)", "Margin")
	require.NoError(t, err)
	assert.Equal(t, "/columns/Margin/formula", gotPath)
	assert.Equal(t, "=SUM(Revenue, Cost)", gotExpr)
}

func TestClientApplyRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(applyResponse{Error: "type mismatch in column Cost"})
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Apply(context.Background(), "=SUM(Cost)", "Margin")
	require.Error(t, err)
	assert.Equal(t, "type mismatch in column Cost", err.Error())
}

func TestClientApplyPlainBodyRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Apply(context.Background(), "=SUM(Cost)", "Margin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}
