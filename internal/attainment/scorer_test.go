package attainment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassLevelThresholds(t *testing.T) {
	cases := []struct {
		achieved int
		want     Level
	}{
		{10, 3}, {7, 3}, {6, 2}, {5, 1}, {4, 0}, {0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassLevelOf(tc.achieved, 10), "achieved %d of 10", tc.achieved)
	}
	assert.Equal(t, NoLevel, ClassLevelOf(0, 0))
}

func TestIndividualLevel(t *testing.T) {
	assert.Equal(t, Level(1), IndividualLevel(60, true))
	assert.Equal(t, Level(1), IndividualLevel(100, true))
	assert.Equal(t, Level(0), IndividualLevel(59, true))
	assert.Equal(t, NoLevel, IndividualLevel(0, false))
}

func TestPrecisionPolicies(t *testing.T) {
	assert.Equal(t, 63.0, PrecisionRounded.Apply(62.5))
	assert.Equal(t, "63", PrecisionRounded.Format(62.5))
	assert.Equal(t, 66.67, PrecisionFixed2.Apply(200.0/3))
	assert.Equal(t, "66.67", PrecisionFixed2.Format(200.0/3))
	assert.Equal(t, "60.00", PrecisionFixed2.Format(60))
}

func TestDisplayPercent(t *testing.T) {
	assert.Equal(t, "60", DisplayPercent("60.00"))
	assert.Equal(t, "62.5", DisplayPercent("62.50"))
	assert.Equal(t, "66.67", DisplayPercent("66.67"))
	assert.Equal(t, "60", DisplayPercent("60"))
	assert.Equal(t, "", DisplayPercent(""))
}

func TestLevelJSON(t *testing.T) {
	b, err := json.Marshal(COValues[Level]{3, NoLevel, 0, NoLevel, 1})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"CO1":3,"CO2":null,"CO3":0,"CO4":null,"CO5":1}`, string(b))

	var back COValues[Level]
	assert.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, NoLevel, back[CO2])
	assert.Equal(t, Level(3), back[CO1])
}
