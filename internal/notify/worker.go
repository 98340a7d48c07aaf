package notify

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/you/drivingschool-training/pkg/mq"
)

// Worker consumes training events and turns them into notifications.
type Worker struct {
	cons     *mq.Consumer
	notifier Notifier
}

func NewWorker(cons *mq.Consumer, n Notifier) *Worker {
	return &Worker{cons: cons, notifier: n}
}

func (w *Worker) Run(ctx context.Context) error {
	msgs, err := w.cons.Deliveries(ctx)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := w.handleDelivery(d); err != nil {
				log.Printf("[notify] handle error key=%s err=%v -> Nack&requeue", d.RoutingKey, err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (w *Worker) handleDelivery(d amqp.Delivery) error {
	switch d.RoutingKey {
	case RKSessionCreated:
		ev, err := MustUnmarshal[SessionCreated](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Session scheduled",
			fmt.Sprintf("Session %s on %s %s at %s (instructor=%s, vehicle=%s)",
				ev.SessionID, ev.Date, ev.Time, ev.Location, ev.InstructorID, ev.VehicleID))

	case RKSessionUpdated:
		ev, err := MustUnmarshal[SessionSimple](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Session updated",
			fmt.Sprintf("Session %s details have changed.", ev.SessionID))

	case RKSessionCompleted:
		ev, err := MustUnmarshal[SessionSimple](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Session completed",
			fmt.Sprintf("Session %s has been marked completed.", ev.SessionID))

	case RKSessionCancelled:
		ev, err := MustUnmarshal[SessionSimple](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Session cancelled",
			fmt.Sprintf("Session %s has been cancelled.", ev.SessionID))

	case RKEnrollmentCreated:
		ev, err := MustUnmarshal[EnrollmentCreated](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Student enrolled",
			fmt.Sprintf("Student %s enrolled in session %s.", ev.UserID, ev.SessionID))

	case RKEnrollmentUpdated:
		ev, err := MustUnmarshal[EnrollmentUpdated](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Attendance updated",
			fmt.Sprintf("Enrollment %s marked %s.", ev.EnrollmentID, ev.Status))

	case RKEnrollmentCancelled:
		ev, err := MustUnmarshal[EnrollmentCancelled](d.Body)
		if err != nil {
			return err
		}
		return w.notifier.Notify("Enrollment cancelled",
			fmt.Sprintf("Student %s left session %s.", ev.UserID, ev.SessionID))

	default:
		log.Printf("[notify] skip unknown key=%s", d.RoutingKey)
	}
	return nil
}
