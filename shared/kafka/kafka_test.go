package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"skimr/types"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestPublishItemCreated(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	event := types.ItemCreated{ItemID: "item-1", UserID: "user-1", URL: "https://example.com", Title: "T", Summary: "* s", CreatedAt: time.Unix(0, 0).UTC()}

	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got types.ItemCreated
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.ItemID != "item-1" || got.UserID != "user-1" {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	p := NewProducerFromClient(mock, "summary-items")
	if err := p.PublishItemCreated(context.Background(), event); err != nil {
		t.Fatalf("PublishItemCreated error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}

func TestPublishFailure(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewProducerFromClient(mock, "summary-items")
	defer p.Close()
	if err := p.Publish(context.Background(), "k", map[string]string{"a": "b"}); !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Fatalf("err = %v; want ErrOutOfBrokers", err)
	}
}

func TestTypedMessageHandler(t *testing.T) {
	var processed []string
	h := &TypedMessageHandler[types.ItemCreated]{
		Validate: func(msg *types.ItemCreated) bool { return msg.ItemID != "" },
		Process: func(_ context.Context, msg *types.ItemCreated) error {
			if msg.ItemID == "fail" {
				return errors.New("s3 down")
			}
			processed = append(processed, msg.ItemID)
			return nil
		},
		AlwaysMark: true,
	}

	cases := []struct {
		name     string
		message  string
		wantMark bool
		wantErr  bool
	}{
		{"valid", `{"itemId":"item-1","userId":"u"}`, true, false},
		{"invalid json", `{not json`, true, false},
		{"fails validation", `{"userId":"u"}`, true, false},
		{"process error", `{"itemId":"fail"}`, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mark, err := h.HandleMessage(context.Background(), []byte(c.message))
			if mark != c.wantMark || (err != nil) != c.wantErr {
				t.Fatalf("HandleMessage = %v, %v; want %v, err %v", mark, err, c.wantMark, c.wantErr)
			}
		})
	}
	if len(processed) != 1 || processed[0] != "item-1" {
		t.Fatalf("processed = %v", processed)
	}
}
