package repositories

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMongoErr(t *testing.T) {
	assert.NoError(t, mongoErr(nil))
	assert.ErrorIs(t, mongoErr(mongo.ErrNoDocuments), ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, mongoErr(dup), ErrDuplicate)

	bulkDup := mongo.BulkWriteException{WriteErrors: []mongo.BulkWriteError{{WriteError: mongo.WriteError{Index: 1, Code: 11000}}}}
	assert.ErrorIs(t, mongoErr(bulkDup), ErrDuplicate)

	other := errors.New("socket closed")
	assert.Equal(t, other, mongoErr(other))
}

var (
	_ UserRepository         = (*MongoUserRepository)(nil)
	_ EventRepository        = (*MongoEventRepository)(nil)
	_ NotificationRepository = (*MongoNotificationRepository)(nil)
	_ MessageRepository      = (*MongoMessageRepository)(nil)
	_ TransactionRepository  = (*PostgresTransactionRepository)(nil)
	_ ReportRepository       = (*PostgresReportRepository)(nil)
	_ AuditLogRepository     = (*PostgresAuditLogRepository)(nil)
)

func TestObjectID(t *testing.T) {
	_, err := objectID("not-hex")
	assert.ErrorIs(t, err, ErrNotFound)

	oid, err := objectID("64b7f0000000000000000001")
	assert.NoError(t, err)
	assert.Equal(t, "64b7f0000000000000000001", oid.Hex())

	assert.Len(t, objectIDs([]string{"64b7f0000000000000000001", "bad"}), 1)
}
