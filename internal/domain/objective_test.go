package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectiveSpecValidate(t *testing.T) {
	tests := []struct {
		name     string
		spec     ObjectiveSpec
		wantCode ErrorCode
	}{
		{name: "valid primary only", spec: ObjectiveSpec{Primary: ObjectiveDistance}},
		{
			name: "valid with tie-breakers",
			spec: ObjectiveSpec{Primary: ObjectiveDistance, TieBreaker1: ObjectiveTime, TieBreaker2: ObjectiveVehiclesUsed},
		},
		{name: "unknown primary", spec: ObjectiveSpec{Primary: "bogus"}, wantCode: CodeBadInput},
		{
			name:     "unknown tie-breaker",
			spec:     ObjectiveSpec{Primary: ObjectiveDistance, TieBreaker1: "bogus"},
			wantCode: CodeBadInput,
		},
		{
			name:     "tie-breaker same as primary",
			spec:     ObjectiveSpec{Primary: ObjectiveDistance, TieBreaker1: ObjectiveDistance},
			wantCode: CodeBadInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, CodeOf(err))
		})
	}
}

func TestObjectiveSpecTieBreakers(t *testing.T) {
	spec := ObjectiveSpec{Primary: ObjectiveDistance}
	assert.Empty(t, spec.TieBreakers())

	spec.TieBreaker1 = ObjectiveTime
	assert.Equal(t, []PrimaryObjective{ObjectiveTime}, spec.TieBreakers())

	spec.TieBreaker2 = ObjectiveCost
	assert.Equal(t, []PrimaryObjective{ObjectiveTime, ObjectiveCost}, spec.TieBreakers())
}

func TestValidPrimaryObjective(t *testing.T) {
	assert.True(t, ValidPrimaryObjective(ObjectiveDistance))
	assert.True(t, ValidPrimaryObjective(ObjectiveMakespan))
	assert.False(t, ValidPrimaryObjective("unknown"))
}
