package payment

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}

func TestParseCallback_FamilyDetection(t *testing.T) {
	tests := []struct {
		name       string
		params     url.Values
		family     CallbackFamily
		status     string
		authority  string
		reference  string
	}{
		{
			name:      "zarinpal ok",
			params:    params("Authority", "A000123", "Status", "OK"),
			family:    FamilyZarinPal,
			status:    "OK",
			authority: "A000123",
		},
		{
			name:      "zarinpal nok",
			params:    params("Authority", "A000123", "Status", "NOK"),
			family:    FamilyZarinPal,
			status:    "NOK",
			authority: "A000123",
		},
		{
			name:      "mellat success derives OK",
			params:    params("ResCode", "0", "SaleReferenceId", "98765"),
			family:    FamilyMellat,
			status:    "OK",
			reference: "98765",
		},
		{
			name:      "mellat non-zero derives NOK",
			params:    params("ResCode", "17", "SaleReferenceId", "98765"),
			family:    FamilyMellat,
			status:    "NOK",
			reference: "98765",
		},
		{
			name:      "saman state verbatim",
			params:    params("State", "OK", "RefNum", "R-1"),
			family:    FamilySaman,
			status:    "OK",
			reference: "R-1",
		},
		{
			name:      "saman cancel",
			params:    params("State", "CanceledByUser", "RefNum", "R-1"),
			family:    FamilySaman,
			status:    "CanceledByUser",
			reference: "R-1",
		},
		{
			name:   "no recognized shape",
			params: params("foo", "bar"),
			family: FamilyUnknown,
		},
		{
			name:   "empty params",
			params: url.Values{},
			family: FamilyUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := ParseCallback(tt.params)
			assert.Equal(t, tt.family, cb.Family)
			assert.Equal(t, tt.status, cb.Status)
			assert.Equal(t, tt.authority, cb.Authority)
			assert.Equal(t, tt.reference, cb.ReferenceID)
		})
	}
}

// Each parameter set must match exactly one family; a set carrying one
// family's full shape keeps matching that family even with stray keys from
// another present, because the match is ordered.
func TestParseCallback_MutualExclusivity(t *testing.T) {
	shapes := map[CallbackFamily]url.Values{
		FamilyZarinPal: params("Authority", "A1", "Status", "OK"),
		FamilyMellat:   params("ResCode", "0", "SaleReferenceId", "S1"),
		FamilySaman:    params("State", "OK", "RefNum", "R1"),
	}
	for family, p := range shapes {
		cb := ParseCallback(p)
		require.Equal(t, family, cb.Family)
	}

	// A full ZarinPal shape with a stray bank key still matches ZarinPal
	// because the ordered match stops at the first complete shape.
	mixed := params("Authority", "A1", "Status", "OK", "RefNum", "R1")
	assert.Equal(t, FamilyZarinPal, ParseCallback(mixed).Family)

	// Partial shapes never match.
	for _, p := range []url.Values{
		params("Authority", "A1"),
		params("Status", "OK"),
		params("ResCode", "0"),
		params("SaleReferenceId", "S1"),
		params("State", "OK"),
		params("RefNum", "R1"),
	} {
		cb := ParseCallback(p)
		assert.Equal(t, FamilyUnknown, cb.Family)
	}
}

func TestClassify_ZarinPalOK_IsProcessingNeverSuccess(t *testing.T) {
	st := Classify(ParseCallback(params("Authority", "abc123", "Status", "OK")))

	assert.True(t, st.Pending)
	assert.True(t, st.Processing)
	assert.True(t, st.Loading)
	assert.False(t, st.Success, "redirect OK must not be treated as payment success")
	assert.False(t, st.Failed)
	assert.False(t, st.Cancelled)
	assert.Empty(t, st.Code)
}

func TestClassify_ZarinPalNOK_IsCancelled(t *testing.T) {
	st := Classify(ParseCallback(params("Authority", "abc123", "Status", "NOK")))

	assert.True(t, st.Failed)
	assert.True(t, st.Cancelled)
	assert.False(t, st.Success)
	assert.False(t, st.Loading)
	assert.Equal(t, CodePaymentCancelled, st.Code)
}

func TestClassify_MellatSuccess_IsProcessing(t *testing.T) {
	st := Classify(ParseCallback(params("ResCode", "0", "SaleReferenceId", "555")))

	assert.True(t, st.Pending)
	assert.True(t, st.Processing)
	assert.True(t, st.Loading)
	assert.False(t, st.Success)
}

func TestClassify_MellatFailure_IsFailedNotCancelled(t *testing.T) {
	st := Classify(ParseCallback(params("ResCode", "1", "SaleReferenceId", "555")))

	assert.True(t, st.Failed)
	assert.False(t, st.Cancelled, "Mellat does not distinguish user aborts")
	assert.Equal(t, CodePaymentFailed, st.Code)
}

func TestClassify_SamanCanceledByUser(t *testing.T) {
	st := Classify(ParseCallback(params("State", "CanceledByUser", "RefNum", "R9")))

	assert.True(t, st.Failed)
	assert.True(t, st.Cancelled)
	assert.Equal(t, CodePaymentCancelled, st.Code)
}

func TestClassify_SamanOtherState_IsFailedNotCancelled(t *testing.T) {
	st := Classify(ParseCallback(params("State", "Expired", "RefNum", "R9")))

	assert.True(t, st.Failed)
	assert.False(t, st.Cancelled)
	assert.Equal(t, CodePaymentFailed, st.Code)
}

func TestClassify_InvalidCallback(t *testing.T) {
	st := Classify(ParseCallback(params("utm_source", "newsletter")))

	assert.True(t, st.Failed)
	assert.False(t, st.Cancelled)
	assert.False(t, st.Loading)
	assert.Equal(t, CodeInvalidCallback, st.Code)
}

func TestClassify_UnknownFamilyValue_DefensiveFallthrough(t *testing.T) {
	st := Classify(CallbackData{Family: CallbackFamily(99), Status: "???"})

	assert.True(t, st.Pending)
	assert.True(t, st.Loading)
	assert.False(t, st.Failed)
	assert.Empty(t, st.Code)
}

func TestParseCallbackURL(t *testing.T) {
	cb := ParseCallbackURL("https://irac.ir/payment/callback?Authority=A77&Status=OK")
	require.Equal(t, FamilyZarinPal, cb.Family)
	assert.Equal(t, "A77", cb.Authority)

	cb = ParseCallbackURL("://not a url")
	assert.Equal(t, FamilyUnknown, cb.Family)
}

func TestCallbackFamily_GatewayType(t *testing.T) {
	assert.Equal(t, GatewayZarinPal, FamilyZarinPal.GatewayType())
	assert.Equal(t, GatewayMellat, FamilyMellat.GatewayType())
	assert.Equal(t, GatewaySaman, FamilySaman.GatewayType())
	assert.Equal(t, GatewayType(""), FamilyUnknown.GatewayType())
}
