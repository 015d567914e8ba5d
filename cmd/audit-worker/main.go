package main

import (
	"encoding/json"
	"log"

	"github.com/uskudu/books-cont/internal/config"
	"github.com/uskudu/books-cont/internal/infra/mq"
	"github.com/uskudu/books-cont/internal/service"
)

const auditQueue = "audit_queue"

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	mqConn := mq.Init(&cfg.RabbitMQ)

	ch, err := mqConn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(auditQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}

	// 手动确认模式（auto-ack=false）
	msgs, err := ch.Consume(auditQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to consume: %v", err)
	}

	log.Println("audit worker started, waiting for messages...")

	for d := range msgs {
		var ev service.ActionEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Printf("invalid message: %v", err)
			// 消息格式错误，拒绝并丢弃
			_ = d.Nack(false, false)
			continue
		}

		if ev.Total != nil {
			log.Printf("audit: user=%s action=%s total=%d details=%q at=%s",
				ev.UserID, ev.Type, *ev.Total, ev.Details, ev.At.Format("2006-01-02 15:04:05"))
		} else {
			log.Printf("audit: user=%s action=%s details=%q at=%s",
				ev.UserID, ev.Type, ev.Details, ev.At.Format("2006-01-02 15:04:05"))
		}
		_ = d.Ack(false)
	}
}
