package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"voicedesk/config"
	"voicedesk/models"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

const noticeKeyPrefix = "reminders:"
const noticeTTL = 48 * time.Hour

// ReminderQueue enqueues appointment reminder tasks. It satisfies the
// conversation package's ReminderScheduler interface.
type ReminderQueue struct {
	client *asynq.Client
}

// NewReminderQueue returns a scheduler over the configured Redis queue.
func NewReminderQueue() *ReminderQueue {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	return &ReminderQueue{client: client}
}

// Schedule enqueues a reminder to fire one hour before the appointment.
// Appointments closer than an hour out get an immediate reminder.
func (q *ReminderQueue) Schedule(ctx context.Context, appt models.Appointment) error {
	payload, err := json.Marshal(models.ReminderPayload{
		AppointmentID: appt.ID,
		UserPhone:     appt.UserPhone,
		UserName:      appt.UserName,
		Date:          appt.Date,
		Time:          appt.Time,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reminder payload: %w", err)
	}

	when, err := time.ParseInLocation("2006-01-02 15:04", appt.Date+" "+appt.Time, time.Local)
	if err != nil {
		return fmt.Errorf("failed to parse appointment time: %w", err)
	}
	fireAt := when.Add(-1 * time.Hour)
	if fireAt.Before(time.Now()) {
		fireAt = time.Now()
	}

	task := asynq.NewTask(TypeReminderSend, payload)
	if _, err := q.client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(noticeStore *redis.Client) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(noticeStore))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// handleReminderTask materializes the reminder as a notice the frontend
// polls for, keyed by the owner's phone number.
func handleReminderTask(noticeStore *redis.Client) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] Invalid payload: %v", err)
			return err
		}

		notice := models.ReminderNotice{
			AppointmentID: p.AppointmentID,
			Message:       fmt.Sprintf("Reminder: you have an appointment on %s at %s.", p.Date, p.Time),
			Date:          p.Date,
			Time:          p.Time,
			CreatedAt:     time.Now(),
		}
		b, err := json.Marshal(notice)
		if err != nil {
			return fmt.Errorf("failed to marshal reminder notice: %w", err)
		}

		key := noticeKeyPrefix + p.UserPhone
		if err := noticeStore.RPush(ctx, key, b).Err(); err != nil {
			log.Printf("[ReminderHandler] Failed to store notice: %v", err)
			return err
		}
		return noticeStore.Expire(ctx, key, noticeTTL).Err()
	}
}

// ListNotices returns the pending reminder notices for a phone number.
func ListNotices(ctx context.Context, noticeStore *redis.Client, phone string) ([]models.ReminderNotice, error) {
	raw, err := noticeStore.LRange(ctx, noticeKeyPrefix+phone, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read reminder notices: %w", err)
	}
	notices := make([]models.ReminderNotice, 0, len(raw))
	for _, item := range raw {
		var n models.ReminderNotice
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			continue
		}
		notices = append(notices, n)
	}
	return notices, nil
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
