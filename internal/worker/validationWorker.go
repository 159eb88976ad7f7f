package worker

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/handler"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/kyc"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/stream"
)

// ValidationWorker consumes validation requests and runs the decision engine
// on each. A completed run produces a message for the decision worker.
func (wk *Worker) ValidationWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: kycValidationGroupID,
		Topic:   handler.KycValidationRequestedTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	for {
		event := consumer.Poll(100) // Poll every 100ms
		switch e := event.(type) {
		case *kafka.Message:
			message := e.Value
			log.Printf("Validation request received on %s: %s\n", e.TopicPartition, string(e.Value))

			var validationReq handler.ValidationRequest
			json.Unmarshal(message, &validationReq)

			summary := wk.validateApplication(&validationReq)
			if summary != nil {
				overallScore, _ := summary.OverallScore.Float64()
				payload, err := json.Marshal(&handler.DecisionCompleted{
					ApplicationID: validationReq.ApplicationID,
					CustomerID:    validationReq.CustomerID,
					Decision:      summary.Decision,
					OverallScore:  overallScore,
				})
				if err != nil {
					log.Printf("Error encoding decision message: %v", err)
					continue
				}

				wk.KafkaStream.ProduceMessage(handler.KycDecisionCompletedTopic, string(payload))
			}
		case kafka.Error:
			log.Printf("Error: %v\n", e)
		default:
			// Handle other events if needed
		}
	}

}

func (wk *Worker) validateApplication(validationReq *handler.ValidationRequest) *kyc.Summary {
	summary, err := wk.Engine.Run(validationReq.ApplicationID, validationReq.CustomerID)
	if err != nil {
		if errors.Is(err, kyc.ErrValidationInProgress) {
			// Another consumer holds the lock; the in-flight run will record
			// the decision.
			log.Printf("Validation already running for application %s, skipping", validationReq.ApplicationID)
			return nil
		}

		log.Printf("Error validating application %s: %v", validationReq.ApplicationID, err)
		return nil
	}

	log.Printf("Validation completed for application %s: %s", validationReq.ApplicationID, summary.Decision)
	return summary
}
