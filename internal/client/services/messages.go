package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mkraev/carelink/internal/client/api"
	"github.com/mkraev/carelink/internal/client/models"
	"github.com/mkraev/carelink/internal/client/session"
	"github.com/mkraev/carelink/internal/common"
	"github.com/mkraev/carelink/internal/filex"
)

// SendInput is one outgoing message submission.
type SendInput struct {
	SubjectID  string
	ThreadID   int64
	ProviderID int64
	Type       string
	Body       string
	Urgent     bool
	Attachment *filex.Attachment // optional
}

// MessageService reads and writes one conversation thread.
type MessageService interface {
	// Thread returns the server's canonical message list, ordered by send
	// time ascending.
	Thread(ctx context.Context, threadID int64) ([]models.Message, error)

	// Send submits one message as multipart/form-data, carrying the
	// optional attachment inline.
	Send(ctx context.Context, in SendInput) error
}

type messageService struct {
	pipeline *api.Pipeline
	store    *session.Store
}

func NewMessageService(pipeline *api.Pipeline, store *session.Store) MessageService {
	return &messageService{pipeline: pipeline, store: store}
}

func (m *messageService) Thread(ctx context.Context, threadID int64) ([]models.Message, error) {
	if threadID <= 0 {
		return nil, fmt.Errorf("thread id %d: %w", threadID, common.ErrInvalidIdentifier)
	}

	d, err := authorized(api.Get("/api/v1/messages/thread/"+strconv.FormatInt(threadID, 10)), m.store)
	if err != nil {
		return nil, err
	}

	msgs, err := api.ExecuteEnveloped[[]models.Message](ctx, m.pipeline, d)
	if err != nil {
		return nil, fmt.Errorf("load thread %d: %w", threadID, err)
	}

	models.SortBySentAt(msgs)
	return msgs, nil
}

func (m *messageService) Send(ctx context.Context, in SendInput) error {
	if in.ThreadID <= 0 || in.ProviderID <= 0 {
		return common.ErrInvalidIdentifier
	}

	form := &api.FormPayload{
		Fields: map[string]string{
			"subject_id":  in.SubjectID,
			"thread_id":   strconv.FormatInt(in.ThreadID, 10),
			"provider_id": strconv.FormatInt(in.ProviderID, 10),
			"type":        in.Type,
			"body":        in.Body,
			"urgent":      strconv.FormatBool(in.Urgent),
		},
	}
	if in.Attachment != nil {
		form.Files = append(form.Files, api.FormFile{
			FieldName: "attachment",
			FileName:  in.Attachment.Name,
			MimeType:  in.Attachment.MimeType,
			Data:      in.Attachment.Data,
		})
	}

	d := api.Descriptor{Method: http.MethodPost, Path: "/api/v1/messages/send", Form: form}
	d = d.WithHeader(common.IdempotencyKeyHeader, uuid.NewString())

	d, err := authorized(d, m.store)
	if err != nil {
		return err
	}

	if _, err := api.ExecuteEnveloped[sendReceipt](ctx, m.pipeline, d); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// sendReceipt is what the submission endpoint acknowledges with. The id it
// carries is not used for reconciliation: the thread is refetched and
// replaced wholesale instead.
type sendReceipt struct {
	ID models.FlexID `json:"id"`
}
