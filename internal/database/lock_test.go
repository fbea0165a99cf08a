package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/levy/internal/database"
)

func TestLockKey(t *testing.T) {
	assert.Equal(t, database.LockKey("payment", "AMC-HOT-1-ABC123"), database.LockKey("payment", "AMC-HOT-1-ABC123"))
	assert.NotEqual(t, database.LockKey("payment", "AMC-HOT-1-ABC123"), database.LockKey("payment", "AMC-HOT-1-ABC124"))
	assert.NotEqual(t, database.LockKey("ab", "c"), database.LockKey("a", "bc"))
}
