package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Afrawles/dataproc/internal/bfhl"
	"github.com/Afrawles/dataproc/internal/coordinator"
)

func sampleResponse() *bfhl.Response {
	return &bfhl.Response{
		IsSuccess:         true,
		UserID:            "john_doe_17091999",
		Email:             "john@xyz.com",
		RollNumber:        "ABCD123",
		Sum:               "339",
		ConcatString:      "Ra",
		EvenNumbers:       []bfhl.Value{"334", "4"},
		OddNumbers:        []bfhl.Value{"1"},
		Alphabets:         []bfhl.Value{"A", "R"},
		SpecialCharacters: nil,
	}
}

func TestStateString_Idle(t *testing.T) {
	assert.Empty(t, StateString(coordinator.State{}))
}

func TestStateString_Loading(t *testing.T) {
	assert.Contains(t, StateString(coordinator.State{Status: coordinator.StatusLoading}), LoadingText)
}

func TestStateString_Failed(t *testing.T) {
	st := coordinator.State{
		Status: coordinator.StatusFailed,
		Err:    bfhl.NewHTTPError(400, "bad input"),
	}
	out := StateString(st)
	assert.Contains(t, out, "Error:")
	assert.Contains(t, out, "bad input")
}

func TestResponse(t *testing.T) {
	out := Response(sampleResponse())

	for _, want := range []string{
		"STATUS", "Success",
		"USER ID", "john_doe_17091999",
		"EMAIL", "john@xyz.com",
		"ROLL NUMBER", "ABCD123",
		"SUM OF NUMBERS", "339",
		"CONCATENATED STRING", "Ra",
		"CATEGORIZED ARRAYS",
		"Even Numbers", "334",
		"Odd Numbers",
		"Alphabets (Uppercase)",
		"Special Characters", "None",
	} {
		assert.Contains(t, out, want)
	}
}

func TestResponse_FailedFlag(t *testing.T) {
	resp := sampleResponse()
	resp.IsSuccess = false
	assert.Contains(t, Response(resp), "Failed")
}

func TestState_WritesSuccess(t *testing.T) {
	var buf bytes.Buffer
	err := State(&buf, coordinator.State{Status: coordinator.StatusSuccess, Result: sampleResponse()})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "john@xyz.com")
}

func TestEndpointWarningAndFooter(t *testing.T) {
	assert.Contains(t, EndpointWarning("https://x-frontend.app"), "https://x-frontend.app")
	assert.Contains(t, Footer("https://api.local/bfhl"), "https://api.local/bfhl")
}
