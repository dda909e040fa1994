package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntent_RequiresCountdown(t *testing.T) {
	tests := []struct {
		intent Intent
		want   bool
	}{
		{Lock(), false},
		{Logout(), false},
		{OpenFirewallSettings(), false},
		{Restart(), true},
		{Shutdown(), true},
		{InterfaceUp("eth0"), true},
		{InterfaceDown("eth0"), true},
	}

	for _, tt := range tests {
		t.Run(tt.intent.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.intent.RequiresCountdown())
		})
	}
}

func TestIntent_TargetsInterface(t *testing.T) {
	assert.True(t, InterfaceUp("eth0").TargetsInterface())
	assert.True(t, InterfaceDown("").TargetsInterface())
	assert.False(t, Shutdown().TargetsInterface())
	assert.True(t, InterfaceDown("eth0").AffectsNetwork())
	assert.False(t, Lock().AffectsNetwork())
}

func TestIntent_WithInterfaceDoesNotMutate(t *testing.T) {
	orig := InterfaceDown("")
	bound := orig.WithInterface("eth0")

	assert.Equal(t, "", orig.Interface)
	assert.Equal(t, "eth0", bound.Interface)
}

func TestIntent_Descriptions(t *testing.T) {
	assert.Equal(t, "Computer locked", Lock().CompletedDescription())
	assert.Equal(t, "Network 'eth0' disabled", InterfaceDown("eth0").CompletedDescription())
	assert.Equal(t, "Network 'eth0' enabled", InterfaceUp("eth0").CompletedDescription())
	assert.Equal(t, "Really disable interface 'eth0'?", InterfaceDown("eth0").Prompt())
	assert.Equal(t, "Shutdown", Shutdown().Title())
	assert.Equal(t, "interface-down(eth0)", InterfaceDown("eth0").String())
}

func TestParseIntent(t *testing.T) {
	for _, kind := range AllIntentKinds {
		intent, err := ParseIntent(string(kind), "eth0")
		require.NoError(t, err)
		assert.Equal(t, kind, intent.Kind)
		assert.Equal(t, intent.TargetsInterface(), intent.Interface != "")
	}

	_, err := ParseIntent("hibernate", "")
	assert.Error(t, err)
}
