package worker

import (
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/handler"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/stream"
)

// DecisionWorker consumes completed decisions and emails the customer, then
// marks the matching notification row as sent.
func (wk *Worker) DecisionWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: kycDecisionGroupID,
		Topic:   handler.KycDecisionCompletedTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	for {
		event := consumer.Poll(100) // Poll every 100ms
		switch e := event.(type) {
		case *kafka.Message:
			message := e.Value
			log.Printf("Decision message received on %s: %s\n", e.TopicPartition, string(e.Value))

			var decision handler.DecisionCompleted
			json.Unmarshal(message, &decision)

			wk.notifyCustomer(&decision)
		case kafka.Error:
			log.Printf("Error: %v\n", e)
		default:
			// Handle other events if needed
		}
	}

}

func (wk *Worker) notifyCustomer(decision *handler.DecisionCompleted) {
	customer, found, err := wk.DB.Customer().GetOne(decision.CustomerID)
	if err != nil || !found {
		log.Printf("Error fetching customer %s for decision email: %v", decision.CustomerID, err)
		return
	}

	user, found, err := wk.DB.User().GetOne(customer.UserID)
	if err != nil || !found {
		log.Printf("Error fetching user account for customer %s: %v", decision.CustomerID, err)
		return
	}

	data := map[string]any{
		"FullName":     customer.FullName,
		"Decision":     decision.Decision,
		"OverallScore": decision.OverallScore,
		"Approved":     decision.Decision == models.ApplicationStatusApproved,
	}

	if err := wk.Mailer.Send(user.Email, data, "kyc-decision.tmpl"); err != nil {
		log.Printf("Error sending decision email to %s: %v", user.Email, err)
		return
	}

	// Mark the decision notification as delivered.
	notifications, err := wk.DB.Notification().ListByCustomer(customer.ID, false)
	if err != nil {
		log.Printf("Error fetching notifications for customer %s: %v", customer.ID, err)
		return
	}

	for _, notification := range notifications {
		if notification.Type == models.NotificationTypeKycDecision && !notification.SentAt.Valid {
			if err := wk.DB.Notification().MarkSent(notification.ID); err != nil {
				log.Printf("Error marking notification %s as sent: %v", notification.ID, err)
			}
			break
		}
	}
}
