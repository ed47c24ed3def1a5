package reconcile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshot(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{
		"eplf_payment_all": 10,
		"eplf_log_all": 100,
		"eplf_log_faulty": 5,
		"eplf_log_validated": 95,
		"zd_payment_all": 95,
		"build": "v1.2"
	}`))
	require.NoError(t, err)

	assert.Len(t, s, 5)
	assert.Equal(t, int64(95), s[ZdPaymentAll])

	ok, err := Evaluate(VariantA, s)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDecodeSnapshot_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"array body", `[1,2,3]`, ""},
		{"null body", `null`, ""},
		{"garbage", `<html>`, ""},
		{"null counter", `{"zd_payment_all": null}`, ZdPaymentAll},
		{"string counter", `{"eplf_log_all": "100"}`, EplfLogAll},
		{"fractional counter", `{"eplf_log_all": 1.5}`, EplfLogAll},
		{"bool counter", `{"zd_log_all": true}`, ZdLogAll},
		{"negative counter", `{"eplf_log_all": -5}`, EplfLogAll},
		{"min int64 counter", `{"zd_log_all": -9223372036854775808}`, ZdLogAll},
		{"beyond int64", `{"zd_payment_all": 9223372036854775808}`, ZdPaymentAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(tt.body))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSnapshotGet(t *testing.T) {
	s := Snapshot{ZdLogAll: 3}

	v, err := s.Get(ZdLogAll)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	_, err = s.Get(ZdLogValidated)
	assert.EqualError(t, err, `reconcile: field "zd_log_validated": missing`)
}

func TestDecodeSnapshot_MaxInt64(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{"eplf_log_all": 9223372036854775807, "zd_log_all": 0}`))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), s[EplfLogAll])
	assert.Equal(t, int64(0), s[ZdLogAll])
}
