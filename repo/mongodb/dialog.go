package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/models/documents"
)

const (
	sessionCollection = "dialog_sessions"
	messageCollection = "messages"
)

// DialogRepository 私信会话与消息。
type DialogRepository interface {
	EnsureIndexes(ctx context.Context) error

	// AppendMessage 按 session_key upsert 会话，更新最后一条消息并为接收方累加未读数，
	// 然后写入消息，返回会话与回填了 ID 的消息。
	AppendMessage(ctx context.Context, msg *documents.Message) (*documents.DialogSession, error)

	// GetSession 未找到返回 commonerrors.ErrRepoNotFound。
	GetSession(ctx context.Context, id bson.ObjectID) (*documents.DialogSession, error)

	// ListSessions 用户参与的会话，按最后消息时间倒序。
	ListSessions(ctx context.Context, userID uint64, limit int64) ([]*documents.DialogSession, error)

	// ListMessages 按 _id 倒序，before 为零值表示从最新一条开始。
	ListMessages(ctx context.Context, sessionID bson.ObjectID, before bson.ObjectID, limit int64) ([]*documents.Message, error)

	// MarkRead 把会话中发给 userID 的消息标为已读并清零其未读数。
	MarkRead(ctx context.Context, sessionID bson.ObjectID, userID uint64) error
}

type dialogRepository struct {
	sessions *mongo.Collection
	messages *mongo.Collection
	logger   *core.ZapLogger
}

func NewDialogRepository(db *mongo.Database, logger *core.ZapLogger) DialogRepository {
	return &dialogRepository{
		sessions: db.Collection(sessionCollection),
		messages: db.Collection(messageCollection),
		logger:   logger,
	}
}

func (r *dialogRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_key", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "participants", Value: 1}, {Key: "last_message_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("创建 %s 索引失败: %w", sessionCollection, err)
	}
	if _, err := r.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "_id", Value: -1}},
	}); err != nil {
		return fmt.Errorf("创建 %s 索引失败: %w", messageCollection, err)
	}
	return nil
}

func (r *dialogRepository) AppendMessage(ctx context.Context, msg *documents.Message) (*documents.DialogSession, error) {
	now := msg.CreatedAt
	if now.IsZero() {
		now = time.Now()
		msg.CreatedAt = now
	}
	key := documents.SessionKey(msg.SenderID, msg.ReceiverID)
	participants := []uint64{msg.SenderID, msg.ReceiverID}
	if msg.SenderID > msg.ReceiverID {
		participants = []uint64{msg.ReceiverID, msg.SenderID}
	}

	// 1. upsert 会话；发送方未读数字段在新建时初始化为 0
	update := bson.M{
		"$set": bson.M{
			"last_message":    msg.Content,
			"last_sender_id":  msg.SenderID,
			"last_message_at": now,
		},
		"$inc": bson.M{"unread." + documents.UnreadField(msg.ReceiverID): 1},
		"$setOnInsert": bson.M{
			"session_key":  key,
			"participants": participants,
			"created_at":   now,
			"unread." + documents.UnreadField(msg.SenderID): 0,
		},
	}
	if msg.SenderID == msg.ReceiverID {
		delete(update["$setOnInsert"].(bson.M), "unread."+documents.UnreadField(msg.SenderID))
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var session documents.DialogSession
	if err := r.sessions.FindOneAndUpdate(ctx, bson.M{"session_key": key}, update, opts).Decode(&session); err != nil {
		r.logger.Error("更新私信会话失败", zap.Error(err), zap.String("sessionKey", key))
		return nil, fmt.Errorf("更新会话 %s 失败: %w", key, err)
	}

	// 2. 写入消息
	msg.SessionID = session.ID
	res, err := r.messages.InsertOne(ctx, msg)
	if err != nil {
		r.logger.Error("写入私信消息失败", zap.Error(err), zap.String("sessionID", session.ID.Hex()))
		return nil, fmt.Errorf("写入消息失败: %w", err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		msg.ID = oid
	}
	return &session, nil
}

func (r *dialogRepository) GetSession(ctx context.Context, id bson.ObjectID) (*documents.DialogSession, error) {
	var s documents.DialogSession
	if err := r.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *dialogRepository) ListSessions(ctx context.Context, userID uint64, limit int64) ([]*documents.DialogSession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}}).SetLimit(limit)
	cur, err := r.sessions.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	sessions := make([]*documents.DialogSession, 0)
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *dialogRepository) ListMessages(ctx context.Context, sessionID bson.ObjectID, before bson.ObjectID, limit int64) ([]*documents.Message, error) {
	filter := bson.M{"session_id": sessionID}
	if !before.IsZero() {
		filter["_id"] = bson.M{"$lt": before}
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(limit)
	cur, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	msgs := make([]*documents.Message, 0, limit)
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *dialogRepository) MarkRead(ctx context.Context, sessionID bson.ObjectID, userID uint64) error {
	if _, err := r.messages.UpdateMany(ctx,
		bson.M{"session_id": sessionID, "receiver_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	); err != nil {
		return err
	}
	_, err := r.sessions.UpdateOne(ctx,
		bson.M{"_id": sessionID},
		bson.M{"$set": bson.M{"unread." + documents.UnreadField(userID): 0}},
	)
	return err
}
