package worker

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pmuigai-sys/hosq/internal/models"
	"github.com/pmuigai-sys/hosq/internal/store"
)

type Worker struct {
	store     store.NotifierStore
	provider  Provider
	batchSize int
}

type payloadData map[string]interface{}

type Config struct {
	BatchSize int
	Provider  Provider
}

func New(st store.NotifierStore, cfg Config) *Worker {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}
	provider := cfg.Provider
	if provider == nil {
		provider = logProvider{}
	}
	return &Worker{
		store:     st,
		provider:  provider,
		batchSize: batch,
	}
}

// Run drains one batch of outbox events and advances the offset.
// A provider failure is recorded in the sms log but does not stall
// the offset; the event is not retried.
func (w *Worker) Run(ctx context.Context) error {
	offset, err := w.store.GetLastOffset(ctx)
	if err != nil {
		return err
	}

	events, err := w.store.ListOutboxEvents(ctx, offset, w.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			log.Printf("sms process error: %v", err)
		}
		offset.LastEventTime = event.CreatedAt
		offset.LastEventID = event.EventID
	}

	if len(events) > 0 {
		if err := w.store.UpdateOffset(ctx, offset); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) processEvent(ctx context.Context, event store.OutboxEvent) error {
	payload := payloadData{}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	template := templateForEvent(event.Type)
	if template == "" {
		return nil
	}

	phone := str(payload, "phone")
	if phone == "" {
		return nil
	}

	message := renderTemplate(template, payload)

	entry := models.SmsLog{
		LogID:       uuid.NewString(),
		PhoneNumber: phone,
		Message:     message,
		Status:      models.SmsStatusSent,
		SentAt:      time.Now().UTC(),
	}
	if patientID := str(payload, "patient_id"); patientID != "" {
		entry.PatientID = &patientID
	}
	if entryID := str(payload, "entry_id"); entryID != "" {
		entry.QueueEntryID = &entryID
	}

	ref, sendErr := w.provider.Send(ctx, message, phone)
	if sendErr != nil {
		entry.Status = models.SmsStatusFailed
		log.Printf("sms send failed phone=%s: %v", phone, sendErr)
	} else if ref != "" {
		entry.ProviderRef = &ref
	}

	return w.store.InsertSmsLog(ctx, entry)
}

func templateForEvent(eventType string) string {
	switch eventType {
	case store.EventCheckedIn:
		return "Hello {full_name}, you have been registered with queue number {queue_number}. You are at {stage_name}."
	case store.EventCalled:
		return "Hello {full_name}, queue number {queue_number} is now being called! Please proceed to the {stage_name} counter immediately."
	case store.EventStageChanged:
		return "Hello {full_name}, queue number {queue_number} has moved to {stage_name}. Please proceed to the counter when called."
	default:
		return ""
	}
}

func renderTemplate(template string, payload payloadData) string {
	result := template
	result = strings.ReplaceAll(result, "{full_name}", str(payload, "full_name"))
	result = strings.ReplaceAll(result, "{queue_number}", str(payload, "queue_number"))
	result = strings.ReplaceAll(result, "{stage_name}", str(payload, "stage_name"))
	return result
}

func str(payload payloadData, key string) string {
	if value, ok := payload[key]; ok {
		if text, ok := value.(string); ok {
			return text
		}
	}
	return ""
}

func Start(ctx context.Context, interval time.Duration, w *Worker) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Run(ctx); err != nil {
				log.Printf("sms worker error: %v", err)
			}
		}
	}
}
