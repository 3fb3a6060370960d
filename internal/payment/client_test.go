package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"irac/internal/pkg/lesan"
)

type rpcCall struct {
	Service string `json:"service"`
	Model   string `json:"model"`
	Act     string `json:"act"`
	Details struct {
		Set map[string]interface{} `json:"set"`
		Get map[string]interface{} `json:"get"`
	} `json:"details"`
}

// fakeBackend serves the lesan envelope convention for tests.
func fakeBackend(t *testing.T, handle func(call rpcCall) (bool, interface{}, string)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call rpcCall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&call))

		success, body, message := handle(call)
		resp := map[string]interface{}{"success": success, "message": message}
		if body != nil {
			resp["body"] = body
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(t *testing.T, handle func(call rpcCall) (bool, interface{}, string)) *Client {
	ts := fakeBackend(t, handle)
	t.Cleanup(ts.Close)
	return NewClient(lesan.New(ts.URL, "test-token"), zap.NewNop())
}

func validRequest() PaymentRequest {
	return PaymentRequest{
		Amount:      150_000,
		Purpose:     PurposeCoursePurchase,
		Description: "ثبت‌نام دوره معماری",
	}
}

func TestCreatePayment_Success(t *testing.T) {
	client := newTestClient(t, func(call rpcCall) (bool, interface{}, string) {
		require.Equal(t, "payment", call.Model)
		require.Equal(t, "createUnifiedPayment", call.Act)
		assert.Equal(t, float64(150_000), call.Details.Set["amount"])
		assert.Equal(t, "IRR", call.Details.Set["currency"])
		// metadata/options must serialize as objects, never null
		assert.NotNil(t, call.Details.Set["metadata"])
		assert.NotNil(t, call.Details.Set["options"])

		return true, map[string]interface{}{
			"success":        true,
			"transaction_id": "TXN-1",
			"gateway_type":   "zarinpal",
			"payment_url":    "https://gateway.example/pay/A1",
			"authority":      "A1",
			"amount":         150_000,
			"final_amount":   151_500,
			"gateway_fee":    1_500,
		}, ""
	})

	resp := client.CreatePayment(context.Background(), validRequest())

	require.True(t, resp.Success)
	assert.Equal(t, "TXN-1", resp.TransactionID)
	assert.Equal(t, GatewayZarinPal, resp.GatewayType)
	assert.True(t, resp.Resumable())
	assert.Equal(t, int64(151_500), resp.FinalAmount)
}

func TestCreatePayment_BackendRejection_FailedResponseShape(t *testing.T) {
	client := newTestClient(t, func(call rpcCall) (bool, interface{}, string) {
		return false, nil, "درگاه در دسترس نیست"
	})

	resp := client.CreatePayment(context.Background(), validRequest())

	require.False(t, resp.Success)
	assert.Equal(t, "درگاه در دسترس نیست", resp.Error)
	assert.Equal(t, int64(150_000), resp.Amount)
	assert.Equal(t, int64(150_000), resp.FinalAmount, "failure must echo the requested amount")
	assert.Equal(t, int64(0), resp.GatewayFee)
	assert.Equal(t, GatewayZarinPal, resp.GatewayType, "placeholder gateway on failure")
	assert.False(t, resp.Resumable())
}

func TestCreatePayment_TransportFailure_NeverPanicsOrErrors(t *testing.T) {
	// Point at a closed port: the call must come back as a failed response.
	client := NewClient(lesan.New("http://127.0.0.1:1", ""), zap.NewNop())

	resp := client.CreatePayment(context.Background(), validRequest())

	require.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, int64(150_000), resp.FinalAmount)
	assert.Equal(t, int64(0), resp.GatewayFee)
}

func TestCreatePayment_InvalidAmount_RejectedLocally(t *testing.T) {
	called := false
	client := newTestClient(t, func(call rpcCall) (bool, interface{}, string) {
		called = true
		return true, nil, ""
	})

	req := validRequest()
	req.Amount = MinPaymentAmount - 1
	resp := client.CreatePayment(context.Background(), req)

	require.False(t, resp.Success)
	assert.False(t, called, "invalid amounts must not reach the backend")
	assert.Equal(t, req.Amount, resp.FinalAmount)
}

func TestCreatePayment_SuccessWithoutCorrelation_IsFailure(t *testing.T) {
	client := newTestClient(t, func(call rpcCall) (bool, interface{}, string) {
		return true, map[string]interface{}{
			"success":        true,
			"transaction_id": "TXN-2",
			"gateway_type":   "zarinpal",
		}, ""
	})

	resp := client.CreatePayment(context.Background(), validRequest())

	require.False(t, resp.Success, "a success without url/authority/reference is not resumable")
}

func TestGetAvailableGateways_PassThroughIsStable(t *testing.T) {
	descriptors := []map[string]interface{}{
		{
			"gateway_id": "gw-zp-1",
			"type":       "zarinpal",
			"min_amount": 10_000,
			"max_amount": 500_000_000,
			"available":  true,
			"healthy":    true,
		},
		{
			"gateway_id": "gw-saman-1",
			"type":       "saman",
			"min_amount": 50_000,
			"max_amount": 1_000_000_000,
			"available":  true,
			"healthy":    false,
		},
	}
	client := newTestClient(t, func(call rpcCall) (bool, interface{}, string) {
		require.Equal(t, "getAvailableGateways", call.Act)
		assert.Equal(t, float64(150_000), call.Details.Set["amount"])
		return true, descriptors, ""
	})

	first, err := client.GetAvailableGateways(context.Background(), 150_000)
	require.NoError(t, err)
	second, err := client.GetAvailableGateways(context.Background(), 150_000)
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, first, second, "identical queries against a stable backend yield identical lists")
	assert.Equal(t, GatewaySaman, second[1].Type)
}

func TestGetAvailableGateways_FailureReturnsEmptyList(t *testing.T) {
	client := newTestClient(t, func(call rpcCall) (bool, interface{}, string) {
		return false, nil, "service unavailable"
	})

	gateways, err := client.GetAvailableGateways(context.Background(), 0)
	require.Error(t, err)
	assert.NotNil(t, gateways)
	assert.Empty(t, gateways)
}

func TestVerifyPayment_Success(t *testing.T) {
	client := newTestClient(t, func(call rpcCall) (bool, interface{}, string) {
		require.Equal(t, "verifyUnifiedPayment", call.Act)
		assert.Equal(t, "TXN-1", call.Details.Set["transaction_id"])
		assert.Equal(t, "A1", call.Details.Set["authority"])
		return true, map[string]interface{}{
			"success":        true,
			"transaction_id": "TXN-1",
			"amount":         151_500,
			"tracking_code":  "TRK-42",
			"card": map[string]interface{}{
				"masked_pan": "603799******1234",
				"bank_name":  "ملی",
			},
		}, ""
	})

	resp := client.VerifyPayment(context.Background(), VerifyRequest{
		TransactionID:  "TXN-1",
		Authority:      "A1",
		CallbackParams: map[string]string{"Authority": "A1", "Status": "OK"},
	})

	require.True(t, resp.Success)
	assert.Equal(t, "TRK-42", resp.TrackingCode)
	require.NotNil(t, resp.Card)
	assert.Nil(t, resp.Wallet, "card and wallet branches are mutually exclusive")
}

func TestVerifyPayment_Failure_TaggedResult(t *testing.T) {
	client := newTestClient(t, func(call rpcCall) (bool, interface{}, string) {
		return false, nil, "تراکنش تایید نشد"
	})

	resp := client.VerifyPayment(context.Background(), VerifyRequest{TransactionID: "TXN-9"})

	require.False(t, resp.Success)
	assert.Equal(t, "TXN-9", resp.TransactionID)
	assert.Equal(t, "تراکنش تایید نشد", resp.Error)
}

func TestRefundPayment_OmitsAmountForFullRefund(t *testing.T) {
	var gotSet map[string]interface{}
	client := newTestClient(t, func(call rpcCall) (bool, interface{}, string) {
		require.Equal(t, "refundPayment", call.Act)
		gotSet = call.Details.Set
		return true, map[string]interface{}{"tracking_code": "RF-1"}, ""
	})

	result := client.RefundPayment(context.Background(), "TXN-1", 0)

	require.True(t, result.Success)
	assert.Equal(t, "RF-1", result.TrackingCode)
	_, hasAmount := gotSet["amount"]
	assert.False(t, hasAmount, "zero amount requests a full refund, field omitted")
}

func TestRefundPayment_PartialAmountIsSent(t *testing.T) {
	var gotSet map[string]interface{}
	client := newTestClient(t, func(call rpcCall) (bool, interface{}, string) {
		gotSet = call.Details.Set
		return true, nil, ""
	})

	result := client.RefundPayment(context.Background(), "TXN-1", 50_000)

	require.True(t, result.Success)
	assert.Equal(t, float64(50_000), gotSet["amount"])
}

func TestCancelPayment(t *testing.T) {
	client := newTestClient(t, func(call rpcCall) (bool, interface{}, string) {
		require.Equal(t, "cancelPayment", call.Act)
		return true, nil, ""
	})

	result := client.CancelPayment(context.Background(), "TXN-1")
	require.True(t, result.Success)
	assert.Equal(t, "TXN-1", result.TransactionID)
}

func TestGetStatistics(t *testing.T) {
	client := newTestClient(t, func(call rpcCall) (bool, interface{}, string) {
		require.Equal(t, "getPaymentStatistics", call.Act)
		return true, map[string]interface{}{
			"total_count":   120,
			"success_count": 100,
			"failed_count":  20,
			"total_amount":  12_000_000,
		}, ""
	})

	stats, err := client.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(120), stats.TotalCount)
	assert.Equal(t, int64(12_000_000), stats.TotalAmount)
}

func TestWalletClient_GetBalance(t *testing.T) {
	ts := fakeBackend(t, func(call rpcCall) (bool, interface{}, string) {
		require.Equal(t, "wallet", call.Model)
		require.Equal(t, "getBalance", call.Act)
		return true, map[string]interface{}{"balance": 200_000, "currency": "IRR"}, ""
	})
	t.Cleanup(ts.Close)
	wallet := NewWalletClient(lesan.New(ts.URL, ""), zap.NewNop())

	balance, err := wallet.GetBalance(context.Background(), 150_000)
	require.NoError(t, err)
	assert.Equal(t, int64(200_000), balance.Balance)
	assert.True(t, balance.Sufficient)
	assert.False(t, balance.FetchedAt.IsZero())

	balance, err = wallet.GetBalance(context.Background(), 300_000)
	require.NoError(t, err)
	assert.False(t, balance.Sufficient)
}
