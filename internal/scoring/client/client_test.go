package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"planora/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_AnalyzeDebt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze-debt", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in domain.DebtProfile
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, 50000.0, in.MonthlyIncome)

		_ = json.NewEncoder(w).Encode(domain.DebtAnalysis{
			RiskScore:    0.42,
			RiskCategory: "Medium Risk",
		})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	a, err := c.AnalyzeDebt(context.Background(), domain.DebtProfile{MonthlyIncome: 50000})
	require.NoError(t, err)
	assert.InDelta(t, 0.42, a.RiskScore, 1e-9)
	assert.Equal(t, "Medium Risk", a.RiskCategory)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Failed to analyze goal-based planning: boom"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).AnalyzeGoals(context.Background(), domain.GoalPlan{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Failed to analyze goal-based planning: boom", apiErr.Detail)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestClient_ValidationDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body","risk_appetite"],"msg":"field required"}]}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).AnalyzeInvestment(context.Background(), domain.InvestmentProfile{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "field required")
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).Allocate(context.Background(), domain.FinancialProfile{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_NotJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).AnalyzeDebt(context.Background(), domain.DebtProfile{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	err := New(srv.URL, 20*time.Millisecond).Health(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL, time.Second).Health(context.Background()))
}
