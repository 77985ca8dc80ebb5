package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/qrave1/MeetPlanner/internal/application/config"
	"github.com/qrave1/MeetPlanner/internal/application/constant"
	"github.com/qrave1/MeetPlanner/internal/domain/models"
)

const defaultQueueSize = 128

var ErrQueueFull = errors.New("mail queue is full")

type deliverFunc func(ctx context.Context, e email) error

// MailNotifier ставит письма в очередь и отправляет их в фоне через Run,
// поэтому Send* не ждёт SMTP сервер
type MailNotifier struct {
	deliver deliverFunc
	queue   chan email
	log     *slog.Logger
}

func NewMailNotifier(cfg config.SMTPConfig, log *slog.Logger) (*MailNotifier, error) {
	client, err := mail.NewClient(
		cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	deliver := func(ctx context.Context, e email) error {
		msg := mail.NewMsg()
		if err := msg.From(cfg.From); err != nil {
			return fmt.Errorf("set from: %w", err)
		}
		if err := msg.To(e.To); err != nil {
			return fmt.Errorf("set to: %w", err)
		}
		msg.Subject(e.Subject)
		msg.SetBodyString(mail.TypeTextHTML, e.Body)

		return client.DialAndSendWithContext(ctx, msg)
	}

	return newMailNotifier(deliver, defaultQueueSize, log), nil
}

func newMailNotifier(deliver deliverFunc, queueSize int, log *slog.Logger) *MailNotifier {
	return &MailNotifier{
		deliver: deliver,
		queue:   make(chan email, queueSize),
		log:     log,
	}
}

// Run отправляет письма из очереди до отмены контекста
func (n *MailNotifier) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-n.queue:
			if err := n.deliver(ctx, e); err != nil {
				n.log.Error(
					"failed to send mail",
					slog.String("to", e.To),
					slog.String("subject", e.Subject),
					slog.Any(constant.Error, err),
				)
			}
		}
	}
}

func (n *MailNotifier) SendCreated(ctx context.Context, m models.Meeting) error {
	return n.enqueue(kindCreated, m)
}

func (n *MailNotifier) SendEdited(ctx context.Context, m models.Meeting) error {
	return n.enqueue(kindEdited, m)
}

func (n *MailNotifier) SendDeleted(ctx context.Context, m models.Meeting) error {
	return n.enqueue(kindDeleted, m)
}

func (n *MailNotifier) SendReminder(ctx context.Context, m models.Meeting) error {
	return n.enqueue(kindReminder, m)
}

func (n *MailNotifier) enqueue(k kind, m models.Meeting) error {
	if m.UserEmail == "" {
		return fmt.Errorf("%s mail for meeting %s: empty recipient", k, m.MeetingID)
	}

	e, err := render(k, m)
	if err != nil {
		return err
	}

	select {
	case n.queue <- e:
		return nil
	default:
		return fmt.Errorf("%s mail for meeting %s: %w", k, m.MeetingID, ErrQueueFull)
	}
}
