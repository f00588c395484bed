package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"justissimo-api/apperrors"
	"justissimo-api/models"
	"justissimo-api/validators"
)

type ListMessagesDivulgationRequest struct {
	DivulgationID string
	LawyerID      string
}

type DivulgationMessages struct {
	ID           uint                 `json:"id_divulgation"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	RegisteredAt time.Time            `json:"registered_at"`
	Closed       bool                 `json:"closed"`
	Client       DivulgationClient    `json:"client"`
	Messages     []DivulgationMessage `json:"messages"`
}

type DivulgationClient struct {
	Name            string `json:"name"`
	City            string `json:"city"`
	State           string `json:"state"`
	ProfilePhotoURL string `json:"profile_photo_url"`
}

type DivulgationMessage struct {
	ID     uint          `json:"id_message"`
	Text   string        `json:"message"`
	SentAt time.Time     `json:"sent_at"`
	Lawyer MessageLawyer `json:"lawyer"`
}

type MessageLawyer struct {
	ID   uint   `json:"id_lawyer"`
	Name string `json:"name"`
}

type ListMessagesDivulgationLawyerUseCase struct {
	repo models.Repository
}

func NewListMessagesDivulgationLawyerUseCase(repo models.Repository) *ListMessagesDivulgationLawyerUseCase {
	return &ListMessagesDivulgationLawyerUseCase{repo: repo}
}

// Execute returns the divulgation with only the given lawyer's messages, newest first.
func (uc *ListMessagesDivulgationLawyerUseCase) Execute(ctx context.Context, req ListMessagesDivulgationRequest) (*DivulgationMessages, error) {
	rawDivulgationID, err := validators.NonEmpty("id_divulgation", req.DivulgationID)
	if err != nil {
		return nil, err
	}
	rawLawyerID, err := validators.NonEmpty("fk_lawyer", req.LawyerID)
	if err != nil {
		return nil, err
	}

	divulgationID, err := validators.PositiveID(rawDivulgationID, "Id da divulgacao invalido!")
	if err != nil {
		return nil, err
	}
	lawyerID, err := validators.PositiveID(rawLawyerID, "Id do advogado invalido!")
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.FindLawyer(ctx, lawyerID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, apperrors.ErrLawyerNotFound
		}
		return nil, fmt.Errorf("failed to load lawyer: %w", err)
	}

	divulgation, err := uc.repo.FindDivulgationWithMessages(ctx, divulgationID, lawyerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, apperrors.ErrDivulgationNotFound
		}
		return nil, fmt.Errorf("failed to load divulgation: %w", err)
	}

	return toDivulgationMessages(divulgation), nil
}

func toDivulgationMessages(d *models.Divulgation) *DivulgationMessages {
	out := &DivulgationMessages{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		RegisteredAt: d.RegisteredAt,
		Closed:       d.Closed,
		Messages:     make([]DivulgationMessage, 0, len(d.Messages)),
	}

	if c := d.Client; c != nil {
		out.Client.Name = c.Name
		if c.Address != nil {
			out.Client.City = c.Address.City
			out.Client.State = c.Address.State
		}
		if c.User != nil {
			out.Client.ProfilePhotoURL = c.User.ProfilePhotoURL
		}
	}

	for _, m := range d.Messages {
		msg := DivulgationMessage{ID: m.ID, Text: m.Text, SentAt: m.SentAt}
		if m.Lawyer != nil {
			msg.Lawyer = MessageLawyer{ID: m.Lawyer.ID, Name: m.Lawyer.Name}
		} else {
			msg.Lawyer.ID = m.LawyerID
		}
		out.Messages = append(out.Messages, msg)
	}
	return out
}
