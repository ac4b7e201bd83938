package location

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloadFrom(t *testing.T, body string) Payload {
	t.Helper()
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestValidateReportsEveryFailingRuleInOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "empty body fails only the required rules",
			body: `{}`,
			want: []string{msgNameRequired, msgMaleRequired, msgFemaleRequired},
		},
		{
			name: "empty strings fail required and integer rules",
			body: `{"name":"","maleResidents":"","femaleResidents":""}`,
			want: []string{msgNameRequired, msgMaleRequired, msgFemaleRequired, msgMaleInteger, msgFemaleInteger},
		},
		{
			name: "name alone leaves both counts required",
			body: `{"name":"Location"}`,
			want: []string{msgMaleRequired, msgFemaleRequired},
		},
		{
			name: "string-typed counts are not integers",
			body: `{"name":"Location","maleResidents":"1","femaleResidents":"5"}`,
			want: []string{msgMaleInteger, msgFemaleInteger},
		},
		{
			name: "null counts are missing, not malformed",
			body: `{"name":"Location","maleResidents":null,"femaleResidents":5}`,
			want: []string{msgMaleRequired},
		},
		{
			name: "fractional count is rejected",
			body: `{"name":"Location","maleResidents":1.5,"femaleResidents":5}`,
			want: []string{msgMaleInteger},
		},
		{
			name: "negative count is rejected",
			body: `{"name":"Location","maleResidents":1,"femaleResidents":-5}`,
			want: []string{msgFemaleInteger},
		},
		{
			name: "whitespace-only name is empty",
			body: `{"name":"   ","maleResidents":1,"femaleResidents":5}`,
			want: []string{msgNameRequired},
		},
		{
			name: "boolean count is rejected",
			body: `{"name":"Location","maleResidents":true,"femaleResidents":5}`,
			want: []string{msgMaleInteger},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, violations := Validate(payloadFrom(t, tt.body))
			assert.Equal(t, tt.want, violations)
		})
	}
}

func TestValidateAcceptsAndSanitizes(t *testing.T) {
	candidate, violations := Validate(payloadFrom(t, `{"name":"  <Lagos> ","maleResidents":1,"femaleResidents":5}`))
	require.Nil(t, violations)
	assert.Equal(t, "&lt;Lagos&gt;", candidate.Name)
	assert.Equal(t, 1, candidate.MaleResidents)
	assert.Equal(t, 5, candidate.FemaleResidents)
}

func TestValidateAllowsZeroCounts(t *testing.T) {
	candidate, violations := Validate(payloadFrom(t, `{"name":"Lagos","maleResidents":0,"femaleResidents":0}`))
	require.Nil(t, violations)
	assert.Equal(t, 0, candidate.MaleResidents)
	assert.Equal(t, 0, candidate.FemaleResidents)
}
