// Package alerts enqueues best-effort notifications for job lifecycle
// events. Tasks ride Asynq on Redis; a separate worker drains them.
package alerts

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

var client *asynq.Client

// Init creates the shared task client. When addr is empty the package stays
// disabled and every enqueue is a no-op, which keeps test runs and
// redis-less deployments quiet.
func Init(addr, password string) {
	if addr == "" {
		log.Println("alerts: no redis address, notifications disabled")
		return
	}
	client = asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	log.Printf("alerts: asynq client initialized (addr=%s)", addr)
}

// Close releases the client.
func Close() {
	if client != nil {
		_ = client.Close()
	}
}

func enqueue(taskType string, payload any, queue string) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = client.Enqueue(asynq.NewTask(taskType, b), asynq.Queue(queue))
	return err
}

// RunWorker starts an Asynq server that drains the notification queues.
// It blocks until the server stops.
func RunWorker(addr, password string) error {
	opts := asynq.RedisClientOpt{Addr: addr, Password: password}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskJobApplied, handleJobApplied)
	mux.HandleFunc(TaskJobAccepted, handleJobAccepted)
	mux.HandleFunc(TaskJobSettled, handleJobSettled)
	mux.HandleFunc(TaskReviewReceived, handleReviewReceived)

	server := asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"notifications": 10,
		},
	})
	return server.Run(mux)
}

func handleJobApplied(_ context.Context, t *asynq.Task) error {
	var p JobAppliedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Printf("[notify][ERROR] JobApplied send failed: %v", err)
		return err
	}
	log.Printf("[notify] JobApplied sent -> request=%s pro=%s", p.RequestID, p.ProfessionalName)
	return nil
}

func handleJobAccepted(_ context.Context, t *asynq.Task) error {
	var p JobAcceptedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Printf("[notify][ERROR] JobAccepted send failed: %v", err)
		return err
	}
	log.Printf("[notify] JobAccepted sent -> job=%s pro=%s", p.JobID, p.ProfessionalName)
	return nil
}

func handleJobSettled(_ context.Context, t *asynq.Task) error {
	var p JobSettledPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Printf("[notify][ERROR] JobSettled send failed: %v", err)
		return err
	}
	log.Printf("[notify] JobSettled sent -> job=%s earning=%.2f", p.JobID, p.ProEarning)
	return nil
}

func handleReviewReceived(_ context.Context, t *asynq.Task) error {
	var p ReviewReceivedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Printf("[notify][ERROR] ReviewReceived send failed: %v", err)
		return err
	}
	log.Printf("[notify] ReviewReceived sent -> review=%s rating=%d", p.ReviewID, p.Rating)
	return nil
}
