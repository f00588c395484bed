package usecases

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"justissimo-api/apperrors"
	"justissimo-api/models"
	"justissimo-api/monitoring"
	"justissimo-api/notification"
	"justissimo-api/utils"
	"justissimo-api/validators"
)

const (
	ReasonCancellation = "Cancellation"
	ReasonServiceEnded = "Service ended"
)

const (
	minJustification = 10
	maxJustification = 100
)

var closureReasons = []string{ReasonCancellation, ReasonServiceEnded}

type CloseSchedulingRequest struct {
	SchedulingID  string
	Justification string
	Reason        string
	UserID        string
}

type CloseSchedulingUseCase struct {
	repo     models.Repository
	notifier notification.Notifier
	sender   string
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewCloseSchedulingUseCase(repo models.Repository, notifier notification.Notifier, sender string, log logrus.FieldLogger) *CloseSchedulingUseCase {
	return &CloseSchedulingUseCase{
		repo:     repo,
		notifier: notifier,
		sender:   sender,
		log:      log,
		now:      time.Now,
	}
}

func schedulingUnavailable() error {
	return apperrors.NewDomainError("Não foi possível encerrar o agendamento pois o registro não existe ou já foi encerrado!")
}

func (uc *CloseSchedulingUseCase) Execute(ctx context.Context, req CloseSchedulingRequest) error {
	rawSchedulingID, err := validators.NonEmpty("id_scheduling", req.SchedulingID)
	if err != nil {
		return err
	}
	justification, err := validators.NonEmpty("justificativa", req.Justification)
	if err != nil {
		return err
	}
	reason, err := validators.NonEmpty("reason", req.Reason)
	if err != nil {
		return err
	}
	rawUserID, err := validators.NonEmpty("id_user", req.UserID)
	if err != nil {
		return err
	}

	if !slices.Contains(closureReasons, reason) {
		return apperrors.NewDomainError(fmt.Sprintf(
			"Motivo inválido, informado: %s. Motivos válidos: %s", reason, strings.Join(closureReasons, ","),
		))
	}

	schedulingID, err := validators.PositiveID(rawSchedulingID, "Id do agendamento invalido!")
	if err != nil {
		return err
	}
	userID, err := validators.PositiveID(rawUserID, "Id do usuário invalido!")
	if err != nil {
		return err
	}

	if n := utf8.RuneCountInString(justification); n < minJustification || n > maxJustification {
		return apperrors.NewDomainError("Justificativa invalida! A justificativa deve ter entre 10 e 100 caracteres.")
	}

	user, err := uc.repo.FindUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return apperrors.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	scheduling, err := uc.repo.FindOpenScheduling(ctx, schedulingID)
	if errors.Is(err, models.ErrNotFound) {
		return schedulingUnavailable()
	}
	if err != nil {
		return fmt.Errorf("failed to load scheduling: %w", err)
	}

	notifications, err := uc.closureNotifications(user, scheduling, reason, justification)
	if err != nil {
		return &apperrors.SendMailSchedulingError{Err: err}
	}

	closure := models.SchedulingClosure{
		SchedulingID:  scheduling.ID,
		Justification: justification,
		Reason:        reason,
		ClosedAt:      uc.now(),
	}
	if reason == ReasonServiceEnded && scheduling.ClientID != nil {
		closure.MayReview = &models.MayReview{
			LawyerID: scheduling.LawyerID,
			ClientID: *scheduling.ClientID,
		}
	}

	afterCommit := notification.AfterCommit(uc.notifier)
	var within func(ctx context.Context) error
	if !afterCommit {
		within = func(ctx context.Context) error {
			for _, n := range notifications {
				if err := uc.notifier.Notify(ctx, n); err != nil {
					return fmt.Errorf("%s notification: %w", n.Kind, err)
				}
			}
			return nil
		}
	}

	err = uc.repo.CloseScheduling(ctx, closure, within)
	if errors.Is(err, models.ErrNotFound) {
		return schedulingUnavailable()
	}
	if err != nil {
		return &apperrors.SendMailSchedulingError{Err: err}
	}

	monitoring.SchedulingsClosed.WithLabelValues(reason).Inc()
	if afterCommit {
		uc.enqueue(context.WithoutCancel(ctx), notifications)
	}
	uc.log.WithFields(logrus.Fields{
		"scheduling_id": scheduling.ID,
		"user_id":       user.ID,
		"reason":        reason,
		"notifications": len(notifications),
		"review_grant":  closure.MayReview != nil,
	}).Info("Scheduling closed")
	return nil
}

// enqueue hands notifications of a committed closure to the queue. The closure stands
// whatever happens here, so failures are reported instead of returned.
func (uc *CloseSchedulingUseCase) enqueue(ctx context.Context, notifications []notification.Notification) {
	for _, n := range notifications {
		if err := uc.notifier.Notify(ctx, n); err != nil {
			fields := logrus.Fields{"scheduling_id": n.SchedulingID, "kind": n.Kind}
			uc.log.WithError(err).WithFields(fields).Error("Failed to enqueue closure notification")
			utils.CaptureError(ctx, err, fields)
		}
	}
}

// closureNotifications picks the emails to send for a closure, in sending order.
func (uc *CloseSchedulingUseCase) closureNotifications(user *models.User, s *models.Scheduling, reason, justification string) ([]notification.Notification, error) {
	var clientName, lawyerName, lawyerEmail string
	if s.Client != nil {
		clientName = firstName(s.Client.Name)
	}
	if s.Lawyer != nil {
		lawyerName = firstName(s.Lawyer.Name)
		if s.Lawyer.User != nil {
			lawyerEmail = s.Lawyer.User.Email
		}
	}
	data := emailData{Client: clientName, Lawyer: lawyerName, Justification: justification}

	type plan struct {
		kind string
		to   []string
	}
	var plans []plan
	switch {
	case reason == ReasonCancellation && user.Lawyer != nil:
		plans = append(plans, plan{notification.KindCancelledByLawyer, []string{s.ClientContact}})
	case reason == ReasonCancellation:
		plans = append(plans, plan{notification.KindCancelledByClient, []string{lawyerEmail}})
	default:
		plans = append(plans, plan{notification.KindServiceEnded, []string{lawyerEmail, s.ClientContact}})
		if s.ClientID != nil {
			plans = append(plans, plan{notification.KindReviewInvitation, []string{s.ClientContact}})
		}
	}

	out := make([]notification.Notification, 0, len(plans))
	for _, p := range plans {
		email, err := composeEmail(p.kind, uc.sender, p.to, data)
		if err != nil {
			return nil, err
		}
		if len(email.To) == 0 {
			return nil, fmt.Errorf("%s email: %w", p.kind, utils.ErrNoRecipients)
		}
		out = append(out, notification.Notification{SchedulingID: s.ID, Kind: p.kind, Email: email})
	}
	return out, nil
}
