package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindIs(t *testing.T) {
	tests := []struct {
		kind  Kind
		other Kind
		want  bool
	}{
		{KindNetwork, KindNetwork, true},
		{KindNetwork, KindFCO, true},
		{KindConnection, KindConnection, true},
		{KindConnection, KindNode, false},
		{KindNode, KindNetwork, false},
		{KindUnknown, KindFCO, false},
		{KindFCO, KindNetwork, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+string(tt.other), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Is(tt.other))
		})
	}
}

func TestKindAncestors(t *testing.T) {
	assert.Equal(t, []Kind{KindFCO, KindConnection}, KindConnection.Ancestors())
	assert.Equal(t, []Kind{KindFCO}, KindFCO.Ancestors())
	assert.Empty(t, KindUnknown.Ancestors())
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindNetwork, ParseKind("Network"))
	assert.Equal(t, KindFCO, ParseKind("FCO"))
	assert.Equal(t, KindUnknown, ParseKind("network"))
	assert.Equal(t, KindUnknown, ParseKind(""))
}
