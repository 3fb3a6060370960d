package payment

import "net/url"

// CallbackFamily identifies which gateway produced a return redirect,
// detected by the shape of the query parameters alone.
type CallbackFamily int

const (
	FamilyUnknown CallbackFamily = iota
	FamilyZarinPal
	FamilyMellat
	FamilySaman
)

func (f CallbackFamily) String() string {
	switch f {
	case FamilyZarinPal:
		return "zarinpal"
	case FamilyMellat:
		return "mellat"
	case FamilySaman:
		return "saman"
	}
	return "unknown"
}

// GatewayType maps a callback family back to its gateway type.
func (f CallbackFamily) GatewayType() GatewayType {
	switch f {
	case FamilyZarinPal:
		return GatewayZarinPal
	case FamilyMellat:
		return GatewayMellat
	case FamilySaman:
		return GatewaySaman
	}
	return ""
}

// Machine error codes surfaced by Classify.
const (
	CodePaymentCancelled = "PAYMENT_CANCELLED"
	CodePaymentFailed    = "PAYMENT_FAILED"
	CodeInvalidCallback  = "INVALID_CALLBACK"
)

// Saman reports a user-initiated abort with this State value.
const samanCanceledByUser = "CanceledByUser"

// CallbackData is a parsed gateway return redirect.
type CallbackData struct {
	Family      CallbackFamily
	Status      string
	Authority   string
	ReferenceID string
	Raw         map[string]string
}

// PaymentStatus is the normalized lifecycle classification of a callback.
// Exactly one coherent facet combination is produced per classification;
// callers branch on these instead of per-gateway status strings.
type PaymentStatus struct {
	Pending    bool   `json:"is_pending"`
	Processing bool   `json:"is_processing"`
	Success    bool   `json:"is_success"`
	Failed     bool   `json:"is_failed"`
	Cancelled  bool   `json:"is_cancelled"`
	Expired    bool   `json:"is_expired"`
	Loading    bool   `json:"is_loading"`
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
}

// ParseCallback detects the gateway family from the query-parameter shape.
// The match is ordered and closed; the shapes are mutually exclusive by
// construction of each gateway's callback contract, so the first hit wins.
//
//   - Authority + Status            => ZarinPal, Status used verbatim
//   - ResCode + SaleReferenceId     => Mellat, "OK" iff ResCode == "0"
//   - State + RefNum                => Saman, State used verbatim
func ParseCallback(params url.Values) CallbackData {
	raw := make(map[string]string, len(params))
	for k := range params {
		raw[k] = params.Get(k)
	}

	if params.Has("Authority") && params.Has("Status") {
		return CallbackData{
			Family:    FamilyZarinPal,
			Status:    params.Get("Status"),
			Authority: params.Get("Authority"),
			Raw:       raw,
		}
	}

	if params.Has("ResCode") && params.Has("SaleReferenceId") {
		status := "NOK"
		if params.Get("ResCode") == "0" {
			status = "OK"
		}
		return CallbackData{
			Family:      FamilyMellat,
			Status:      status,
			ReferenceID: params.Get("SaleReferenceId"),
			Raw:         raw,
		}
	}

	if params.Has("State") && params.Has("RefNum") {
		return CallbackData{
			Family:      FamilySaman,
			Status:      params.Get("State"),
			ReferenceID: params.Get("RefNum"),
			Raw:         raw,
		}
	}

	return CallbackData{Family: FamilyUnknown, Raw: raw}
}

// ParseCallbackURL parses a full return URL and classifies its query string.
func ParseCallbackURL(rawURL string) CallbackData {
	u, err := url.Parse(rawURL)
	if err != nil {
		return CallbackData{Family: FamilyUnknown, Raw: map[string]string{}}
	}
	return ParseCallback(u.Query())
}

// Classify maps a parsed callback to its lifecycle status.
//
// A raw "OK" from the redirect means only "proceed to server-side
// verification". This classifier never produces Success; only a verification
// round trip can assert that.
func Classify(cb CallbackData) PaymentStatus {
	switch cb.Family {
	case FamilyZarinPal:
		if cb.Status == "OK" {
			return statusVerifying()
		}
		// ZarinPal reports NOK both for aborts and declines; treat as cancel.
		return PaymentStatus{
			Failed:    true,
			Cancelled: true,
			Message:   "پرداخت توسط کاربر لغو شد",
			Code:      CodePaymentCancelled,
		}

	case FamilyMellat:
		if cb.Status == "OK" {
			return statusVerifying()
		}
		return PaymentStatus{
			Failed:  true,
			Message: "پرداخت ناموفق بود",
			Code:    CodePaymentFailed,
		}

	case FamilySaman:
		switch cb.Status {
		case "OK":
			return statusVerifying()
		case samanCanceledByUser:
			return PaymentStatus{
				Failed:    true,
				Cancelled: true,
				Message:   "پرداخت توسط کاربر لغو شد",
				Code:      CodePaymentCancelled,
			}
		default:
			return PaymentStatus{
				Failed:  true,
				Message: "پرداخت ناموفق بود",
				Code:    CodePaymentFailed,
			}
		}

	case FamilyUnknown:
		return PaymentStatus{
			Failed:  true,
			Message: "پارامترهای بازگشتی نامعتبر است",
			Code:    CodeInvalidCallback,
		}
	}

	// Recognized family, no matching token rule: keep the caller polling.
	return PaymentStatus{
		Pending: true,
		Loading: true,
		Message: "در حال بررسی وضعیت پرداخت",
	}
}

func statusVerifying() PaymentStatus {
	return PaymentStatus{
		Pending:    true,
		Processing: true,
		Loading:    true,
		Message:    "در حال تأیید پرداخت",
	}
}
