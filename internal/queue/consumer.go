package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	confirmedQueue = "booking.confirmed"
	cancelledQueue = "booking.cancelled"
	auditLogPath   = "logs/booking.log"
)

// StartBookingAudit connects to RabbitMQ, declares the booking event
// queues (durable) and consumes them, appending one human-readable
// line per event to logs/booking.log.  It runs a reconnect loop with
// backoff and never returns under normal operation; processing errors
// are logged and the offending message rejected so the server keeps
// running.  Run it in its own goroutine.
func StartBookingAudit(brokerURL string) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL)
		if err != nil {
			log.Printf("booking-audit: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("booking-audit: consume loop ended: %v; reconnecting", err)
		}
		_ = conn.Close()
		time.Sleep(2 * time.Second)
	}
}

// consumeLoop consumes both booking queues on a single channel until
// the connection drops.
func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("booking-audit: set QoS failed: %v", err)
	}

	for _, name := range []string{confirmedQueue, cancelledQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}
	confirmed, err := ch.Consume(confirmedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", confirmedQueue, err)
	}
	cancelled, err := ch.Consume(cancelledQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", cancelledQueue, err)
	}

	for {
		select {
		case d, ok := <-confirmed:
			if !ok {
				return fmt.Errorf("confirmed delivery channel closed")
			}
			ack(d, handleConfirmed(d.Body))
		case d, ok := <-cancelled:
			if !ok {
				return fmt.Errorf("cancelled delivery channel closed")
			}
			ack(d, handleCancelled(d.Body))
		}
	}
}

func ack(d amqp.Delivery, err error) {
	if err != nil {
		log.Printf("booking-audit: handle message failed: %v", err)
		_ = d.Reject(false)
		return
	}
	_ = d.Ack(false)
}

func handleConfirmed(body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode confirmed event: %w", err)
	}
	line := fmt.Sprintf("CONFIRMED booking=%d passenger=%q flight=%s date=%s seat=%d class=%s price=%.2f at=%s",
		ev.BookingID, ev.PassengerName, ev.FlightNumber, ev.FlightDate,
		ev.SeatNumber, ev.SeatClass, ev.Price, ev.BookedAt)
	return appendAuditLine(line)
}

func handleCancelled(body []byte) error {
	var ev BookingCancelledEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode cancelled event: %w", err)
	}
	line := fmt.Sprintf("CANCELLED booking=%d flight=%s date=%s seat=%d at=%s",
		ev.BookingID, ev.FlightNumber, ev.FlightDate, ev.SeatNumber, ev.CancelledAt)
	return appendAuditLine(line)
}

// appendAuditLine appends one timestamped line to the audit log,
// creating the logs directory on first use.
func appendAuditLine(line string) error {
	if err := os.MkdirAll(filepath.Dir(auditLogPath), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(auditLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer func() { _ = f.Close() }()
	_, err = fmt.Fprintf(f, "%s %s\n", time.Now().UTC().Format(time.RFC3339), line)
	return err
}
