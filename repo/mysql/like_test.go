package mysql

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateDuplicate(t *testing.T) {
	other := errors.New("connection refused")

	assert.ErrorIs(t, translateDuplicate(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}), ErrDuplicateEntry)
	assert.ErrorIs(t, translateDuplicate(gorm.ErrDuplicatedKey), ErrDuplicateEntry)
	assert.Equal(t, other, translateDuplicate(other))
	assert.NoError(t, translateDuplicate(nil))

	var lockErr error = &mysql.MySQLError{Number: 1213}
	assert.Equal(t, lockErr, translateDuplicate(lockErr))
}
