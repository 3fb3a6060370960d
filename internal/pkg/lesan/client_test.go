package lesan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall_EnvelopeShapeAndBearerToken(t *testing.T) {
	var gotAuth string
	var gotReq Request

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"body":    map[string]interface{}{"ok": true},
		})
	}))
	defer ts.Close()

	client := New(ts.URL, "secret-token")
	resp, err := client.Call(context.Background(), "main", "payment", "createUnifiedPayment",
		map[string]interface{}{"amount": 1000}, nil)

	require.NoError(t, err)
	assert.True(t, resp.Success)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "main", gotReq.Service)
	assert.Equal(t, "payment", gotReq.Model)
	assert.Equal(t, "createUnifiedPayment", gotReq.Act)
	assert.Equal(t, float64(1000), gotReq.Details.Set["amount"])
	assert.NotNil(t, gotReq.Details.Get, "get projection must serialize as an object")
}

func TestCall_NoTokenOmitsAuthorizationHeader(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "body": map[string]interface{}{}})
	}))
	defer ts.Close()

	client := New(ts.URL, "")
	_, err := client.Call(context.Background(), "main", "wallet", "getBalance", nil, nil)

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestCall_InvalidEnvelopeIsAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer ts.Close()

	client := New(ts.URL, "")
	_, err := client.Call(context.Background(), "main", "payment", "cancelPayment", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid response envelope")
}

func TestDecodeBody(t *testing.T) {
	resp := &Response{Success: true, Body: json.RawMessage(`{"balance": 42}`)}

	var body struct {
		Balance int64 `json:"balance"`
	}
	require.NoError(t, resp.DecodeBody(&body))
	assert.Equal(t, int64(42), body.Balance)

	empty := &Response{Success: true}
	assert.Error(t, empty.DecodeBody(&body))
}
