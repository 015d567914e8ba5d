package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const auditQueue = "audit_queue"

// ActionEvent 审计事件，随行为流水一起在提交后发布到 MQ。
// 丢失事件不影响账务，数据库里的行为流水才是事实来源。
type ActionEvent struct {
	UserID  string    `json:"user_id"`
	Type    string    `json:"action_type"`
	Details string    `json:"details"`
	Total   *int64    `json:"total,omitempty"`
	At      time.Time `json:"at"`
}

// EventPublisher 把审计事件发布到 RabbitMQ，发送失败只记日志
type EventPublisher struct {
	conn *amqp.Connection
}

// NewEventPublisher 创建发布器，conn 为 nil 时所有发布都是空操作
func NewEventPublisher(conn *amqp.Connection) *EventPublisher {
	return &EventPublisher{conn: conn}
}

// Publish 声明队列并发布一条事件
func (p *EventPublisher) Publish(ctx context.Context, ev *ActionEvent) error {
	if p == nil || p.conn == nil {
		return nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(auditQueue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(
		ctx,
		"",
		auditQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// publishAsync 提交后异步发布，永不影响主事务
func (p *EventPublisher) publishAsync(ev *ActionEvent) {
	if p == nil || p.conn == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Publish(ctx, ev); err != nil {
			GetMonitor().RecordMQError()
			log.Printf("publish audit event failed: %v", err)
		}
	}()
}
