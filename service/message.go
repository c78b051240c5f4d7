package service

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/models/documents"
	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/enums"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mongodb"
)

const (
	defaultMessageLimit = 20
	maxSessionList      = 100
)

// MessageService 用户之间的私信。
type MessageService interface {
	Send(ctx context.Context, senderID uint64, req *dto.SendMessageRequest) (*vo.MessageVO, error)
	ListSessions(ctx context.Context, userID uint64) ([]*vo.SessionVO, error)

	// ListMessages 只有会话参与者可以读取，按时间倒序分页。
	ListMessages(ctx context.Context, userID uint64, sessionID string, req *dto.ListMessagesRequest) (*vo.ListMessagesResponse, error)
	MarkRead(ctx context.Context, userID uint64, sessionID string) error
}

type messageService struct {
	dialogRepo  mongodb.DialogRepository
	userService UserService
	logger      *zap.Logger
	now         func() time.Time
}

func NewMessageService(dialogRepo mongodb.DialogRepository, userService UserService, logger *zap.Logger) MessageService {
	return &messageService{dialogRepo: dialogRepo, userService: userService, logger: logger, now: time.Now}
}

func (s *messageService) Send(ctx context.Context, senderID uint64, req *dto.SendMessageRequest) (*vo.MessageVO, error) {
	if senderID == req.ReceiverID {
		return nil, myErrors.ErrSelfMessage
	}
	exists, err := s.userService.Exists(ctx, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, myErrors.ErrUserNotFound
	}

	msgType := req.Type
	if msgType == "" {
		msgType = string(enums.MessageText)
	}
	msg := &documents.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		Type:       msgType,
		CreatedAt:  s.now(),
	}
	if _, err := s.dialogRepo.AppendMessage(ctx, msg); err != nil {
		s.logger.Error("发送私信失败", zap.Uint64("senderID", senderID), zap.Uint64("receiverID", req.ReceiverID), zap.Error(err))
		return nil, myErrors.NewSystemError("发送私信失败", err)
	}
	return vo.NewMessageVO(msg), nil
}

func (s *messageService) ListSessions(ctx context.Context, userID uint64) ([]*vo.SessionVO, error) {
	sessions, err := s.dialogRepo.ListSessions(ctx, userID, maxSessionList)
	if err != nil {
		return nil, myErrors.NewSystemError("获取会话列表失败", err)
	}
	result := make([]*vo.SessionVO, 0, len(sessions))
	peerIDs := make([]uint64, 0, len(sessions))
	for _, sess := range sessions {
		v := vo.NewSessionVO(sess, userID)
		result = append(result, v)
		peerIDs = append(peerIDs, v.Peer.UserID)
	}

	// 资料获取失败时只返回对方 ID
	briefs, err := s.userService.GetBriefs(ctx, peerIDs)
	if err != nil {
		s.logger.Warn("获取会话对方资料失败", zap.Error(err))
		return result, nil
	}
	for _, v := range result {
		if b, ok := briefs[v.Peer.UserID]; ok {
			v.Peer = b
		}
	}
	return result, nil
}

func (s *messageService) ListMessages(ctx context.Context, userID uint64, sessionID string, req *dto.ListMessagesRequest) (*vo.ListMessagesResponse, error) {
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	var before bson.ObjectID
	if req.Before != "" {
		if before, err = bson.ObjectIDFromHex(req.Before); err != nil {
			return nil, myErrors.ErrInvalidObjectID
		}
	}
	limit := pageLimit(req.Limit, defaultMessageLimit, 0)

	msgs, err := s.dialogRepo.ListMessages(ctx, session.ID, before, int64(limit))
	if err != nil {
		return nil, myErrors.NewSystemError("获取消息失败", err)
	}
	out := &vo.ListMessagesResponse{Messages: make([]*vo.MessageVO, 0, len(msgs))}
	for _, m := range msgs {
		out.Messages = append(out.Messages, vo.NewMessageVO(m))
	}
	if len(msgs) == limit {
		out.NextBefore = msgs[len(msgs)-1].ID.Hex()
	}
	return out, nil
}

func (s *messageService) MarkRead(ctx context.Context, userID uint64, sessionID string) error {
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if err := s.dialogRepo.MarkRead(ctx, session.ID, userID); err != nil {
		return myErrors.NewSystemError("标记已读失败", err)
	}
	return nil
}

// loadSession 非参与者与不存在的会话同样返回 ErrSessionNotFound。
func (s *messageService) loadSession(ctx context.Context, userID uint64, sessionID string) (*documents.DialogSession, error) {
	oid, err := bson.ObjectIDFromHex(sessionID)
	if err != nil {
		return nil, myErrors.ErrInvalidObjectID
	}
	session, err := s.dialogRepo.GetSession(ctx, oid)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrSessionNotFound
		}
		return nil, myErrors.NewSystemError("获取会话失败", err)
	}
	if !session.HasParticipant(userID) {
		return nil, myErrors.ErrSessionNotFound
	}
	return session, nil
}
