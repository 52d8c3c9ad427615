package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartOutcomeConsumer connects to RabbitMQ, declares the booking
// outcome queues (durable), and starts consuming messages. Each
// message is appended to logs/booking.log in a single-line,
// human-friendly format. The function runs a reconnect loop with
// backoff and keeps running indefinitely, logging any processing
// errors while rejecting the offending message so the server
// continues operating.
func StartOutcomeConsumer() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("booking-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{ConfirmedQueueName, TimeoutQueueName} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	confirmed, err := ch.Consume(ConfirmedQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", ConfirmedQueueName, err)
	}
	timedOut, err := ch.Consume(TimeoutQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", TimeoutQueueName, err)
	}

	for {
		var (
			d  amqp.Delivery
			ok bool
			fn func([]byte) error
		)
		select {
		case d, ok = <-confirmed:
			fn = handleConfirmed
		case d, ok = <-timedOut:
			fn = handleTimeout
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := fn(d.Body); err != nil {
			log.Printf("booking-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
}

func handleConfirmed(body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Reservation confirmed | reservation_id=%s | user_id=%d | film_id=%d | showtime=%s | total=%d | seats=%s\n",
		ev.ConfirmedAt, ev.ReservationID, ev.UserID, ev.FilmID, ev.Showtime, ev.TotalPrice, seatList(ev.Seats))
	return appendBookingLog(line)
}

func handleTimeout(body []byte) error {
	var ev BookingTimeoutEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Reservation timed out, seats released | reservation_id=%s | user_id=%d | film_id=%d | showtime=%s | seats=%s\n",
		ev.ExpiredAt, ev.ReservationID, ev.UserID, ev.FilmID, ev.Showtime, seatList(ev.Seats))
	return appendBookingLog(line)
}

func seatList(seats []string) string {
	if len(seats) == 0 {
		return "[]"
	}
	return fmt.Sprintf("[%s]", strings.Join(seats, ","))
}

func appendBookingLog(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "booking.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
