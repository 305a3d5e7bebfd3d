package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLabels_RoundTrip(t *testing.T) {
	for _, s := range AllStatuses {
		got, err := ParseLabel(s.Label())
		require.NoError(t, err, s)
		assert.Equal(t, s, got)
	}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		text    string
		want    Status
		wantErr bool
	}{
		{"In Progress", StatusInProgress, false},
		{"  in   progress ", StatusInProgress, false},
		{"Awaiting User Verification", StatusRemediatedWaitingForCustomer, false},
		{"Remediated", StatusRemediatedWaitingForCustomer, false},
		{"REMEDIATION_IN_PROGRESS", StatusRemediationInProgress, false},
		{"Closed", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseLabel(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseToggle(t *testing.T) {
	on, err := ParseToggle(" on ")
	require.NoError(t, err)
	assert.True(t, on)

	off, err := ParseToggle("OFF")
	require.NoError(t, err)
	assert.False(t, off)

	_, err = ParseToggle("maybe")
	assert.Error(t, err)
}

func TestStatus_LabelUnknown(t *testing.T) {
	assert.Equal(t, "ARCHIVED", Status("ARCHIVED").Label())
	assert.Equal(t, "Awaiting Customer", StatusRemediatedWaitingForCustomer.Label())
}
