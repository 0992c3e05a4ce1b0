package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// PurchaseCompletedEvent 在購買 commit 成功後發佈，
// 下游（寄信、統計）都是這個事件的消費者，不在本服務範圍內
type PurchaseCompletedEvent struct {
	OrderID    uint      `json:"order_id"`
	StudentID  uint      `json:"student_id"`
	CourseIDs  []uint    `json:"course_ids"`
	TotalPrice string    `json:"total_price"`
	TxnRef     string    `json:"txn_ref"`
	OccurredAt time.Time `json:"occurred_at"`
}

type IPurchaseEventProducer interface {
	PublishPurchaseCompleted(ctx context.Context, event PurchaseCompletedEvent) error
}

type KafkaPurchaseProducer struct {
	writer *kafka.Writer
}

func NewKafkaPurchaseProducer(brokers []string, topic string) *KafkaPurchaseProducer {
	return &KafkaPurchaseProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: 5 * time.Second,
			MaxAttempts:  3,
		},
	}
}

// PublishPurchaseCompleted 發佈購買完成事件。
// key 用 txn_ref，同一筆交易重送會落在同一分區。
func (p *KafkaPurchaseProducer) PublishPurchaseCompleted(ctx context.Context, event PurchaseCompletedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TxnRef),
		Value: value,
	})
}

func (p *KafkaPurchaseProducer) Close() error {
	return p.writer.Close()
}

var _ IPurchaseEventProducer = (*KafkaPurchaseProducer)(nil)
