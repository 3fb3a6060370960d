package payment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"irac/internal/pkg/lesan"
)

const rpcWalletModel = "wallet"

// WalletClient is a read-only pre-flight check on the user's wallet. It never
// reserves or locks funds; a wallet debit only happens through verification.
type WalletClient struct {
	rpc    *lesan.Client
	logger *zap.Logger
}

// NewWalletClient creates a wallet balance client.
func NewWalletClient(rpc *lesan.Client, logger *zap.Logger) *WalletClient {
	return &WalletClient{rpc: rpc, logger: logger}
}

// GetBalance returns the current balance together with a sufficiency flag for
// the required amount (0 skips the sufficiency check, Sufficient is then true
// for any non-negative balance).
func (w *WalletClient) GetBalance(ctx context.Context, required int64) (*WalletBalance, error) {
	resp, err := w.rpc.Call(ctx, rpcService, rpcWalletModel, "getBalance", nil, nil)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &BackendError{Act: "getBalance", Message: resp.Message}
	}

	var body struct {
		Balance  int64  `json:"balance"`
		Currency string `json:"currency"`
	}
	if err := resp.DecodeBody(&body); err != nil {
		return nil, err
	}

	if body.Currency == "" {
		body.Currency = DefaultCurrency
	}
	return &WalletBalance{
		Balance:    body.Balance,
		Currency:   body.Currency,
		Sufficient: body.Balance >= required,
		FetchedAt:  time.Now(),
	}, nil
}
