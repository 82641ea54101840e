package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeeAmountAcceptsNumbersAndStrings(t *testing.T) {
	var req ApplyDoctorRequest

	require.NoError(t, json.Unmarshal([]byte(`{"fees": 1200}`), &req))
	assert.Equal(t, FeeAmount(1200), req.Fees)

	require.NoError(t, json.Unmarshal([]byte(`{"fees": "1,500 BDT"}`), &req))
	assert.Equal(t, FeeAmount(1500), req.Fees)
}

func TestFeeAmountRejectsGarbage(t *testing.T) {
	var req ApplyDoctorRequest
	assert.Error(t, json.Unmarshal([]byte(`{"fees": "free"}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"fees": 12.5}`), &req))
}
