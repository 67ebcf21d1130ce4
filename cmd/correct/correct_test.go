package correct_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"finback/ledgermatch/cmd/correct"
)

func TestCorrectCommand_Metadata(t *testing.T) {
	assert.Equal(t, "correct", correct.Cmd.Use)
	assert.Contains(t, correct.Cmd.Short, "correction")
	assert.NotNil(t, correct.Cmd.Run)
}

func TestCorrectCommand_Flags(t *testing.T) {
	vendorFlag := correct.Cmd.Flags().Lookup("vendor")
	assert.NotNil(t, vendorFlag)
	assert.Equal(t, "p", vendorFlag.Shorthand)

	accountFlag := correct.Cmd.Flags().Lookup("account")
	assert.NotNil(t, accountFlag)
	assert.Equal(t, "a", accountFlag.Shorthand)
}
