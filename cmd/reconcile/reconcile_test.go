package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"finback/ledgermatch/cmd/reconcile"
)

func TestReconcileCommand_Metadata(t *testing.T) {
	assert.Equal(t, "reconcile", reconcile.Cmd.Use)
	assert.Contains(t, reconcile.Cmd.Short, "Reconcile")
	assert.NotNil(t, reconcile.Cmd.Run)
}

func TestReconcileCommand_Flags(t *testing.T) {
	gatewayFlag := reconcile.Cmd.Flags().Lookup("gateway")
	assert.NotNil(t, gatewayFlag)
	assert.Equal(t, "g", gatewayFlag.Shorthand)

	bankFlag := reconcile.Cmd.Flags().Lookup("bank")
	assert.NotNil(t, bankFlag)
	assert.Equal(t, "b", bankFlag.Shorthand)

	internalFlag := reconcile.Cmd.Flags().Lookup("internal")
	assert.NotNil(t, internalFlag)
	assert.Equal(t, "n", internalFlag.Shorthand)
}
